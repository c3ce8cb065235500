package calendar

var (
	westernMonths = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	copticMonths = []string{
		"Thout", "Paopi", "Hathor", "Koiak", "Tobi", "Meshir", "Paremhat",
		"Parmouti", "Pashons", "Paoni", "Epip", "Mesori", "Pi Kogi Enavot",
	}
	ethiopianMonths = []string{
		"Meskerem", "Tikimt", "Hidar", "Tahsas", "Tir", "Yekatit", "Megabit",
		"Miyazya", "Ginbot", "Sene", "Hamle", "Nehase", "Pagume",
	}
	republicanMonths = []string{
		"Vendémiaire", "Brumaire", "Frimaire", "Nivôse", "Pluviôse", "Ventôse",
		"Germinal", "Floréal", "Prairial", "Messidor", "Thermidor", "Fructidor",
		"Sansculottides",
	}
)

// MonthName returns the conventional English or French name of a month, or
// "" when month is out of range.
func (c Calendar) MonthName(month int) string {
	var names []string
	switch c {
	case Gregorian, Julian:
		names = westernMonths
	case Coptic:
		names = copticMonths
	case Ethiopian:
		names = ethiopianMonths
	case FrenchRepublican, FrenchRepublicanDecimal:
		names = republicanMonths
	}
	if month < 1 || month > len(names) {
		return ""
	}
	return names[month-1]
}
