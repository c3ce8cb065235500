package document

import (
	"github.com/dyluth/lineage/pkg/genealogy"
)

// FromTree returns the document describing tree. Built-in registry entries
// only appear when customized.
func FromTree(tree *genealogy.FamilyTree) *Document {
	doc := &Document{Version: CurrentVersion, Name: tree.Name()}

	for g := range tree.Genders().SerializableEntries() {
		if g.IsBuiltin() {
			doc.Registries.GenderColors = append(doc.Registries.GenderColors,
				GenderColor{Key: g.Key().String(), Color: g.Color()})
			continue
		}
		doc.Registries.Genders = append(doc.Registries.Genders, GenderDescriptor{
			Key:   g.Key().String(),
			Label: g.Label(),
			Color: g.Color(),
			Icon:  g.Icon(),
		})
	}
	for t := range tree.LifeEventTypes().SerializableEntries() {
		doc.Registries.LifeEventTypes = append(doc.Registries.LifeEventTypes, LifeEventTypeDescriptor{
			Key:            t.Key().String(),
			Label:          t.Label(),
			Group:          string(t.Group()),
			IndicatesDeath: t.IndicatesDeath(),
			IndicatesUnion: t.IndicatesUnion(),
			MinActors:      t.MinActors(),
			MaxActors:      t.MaxActors(),
			Unique:         t.IsUnique(),
		})
	}

	for _, pic := range tree.Pictures() {
		doc.Pictures = append(doc.Pictures, PictureDescriptor{
			Name:        pic.Name(),
			Description: pic.Description(),
			Date:        EncodeDate(pic.Date()),
			Location:    pic.Location(),
		})
	}

	persons := tree.Persons()
	index := make(map[*genealogy.Person]int, len(persons))
	for i, p := range persons {
		index[p] = i
	}
	indices := func(ps []*genealogy.Person) []int {
		if len(ps) == 0 {
			return nil
		}
		out := make([]int, len(ps))
		for i, p := range ps {
			out[i] = index[p]
		}
		return out
	}
	ref := func(p *genealogy.Person) *int {
		if p == nil {
			return nil
		}
		i := index[p]
		return &i
	}

	doc.Persons = make([]PersonDescriptor, len(persons))
	for i, p := range persons {
		pd := PersonDescriptor{
			ID:               p.ID().String(),
			LegalLastName:    p.LegalLastName(),
			PublicLastName:   p.PublicLastName(),
			LegalFirstNames:  emptyToNil(p.LegalFirstNames()),
			PublicFirstNames: emptyToNil(p.PublicFirstNames()),
			Nicknames:        emptyToNil(p.Nicknames()),
			LifeStatus:       int(p.LifeStatus()),
			DisambiguationID: p.DisambiguationID(),
			MainOccupation:   p.MainOccupation(),
			Notes:            p.Notes(),
			Sources:          p.Sources(),
			Pictures:         pictureNames(p.Pictures()),
		}
		if g := p.Gender(); g != nil {
			pd.Gender = g.Key().String()
		}
		a, b := p.Parents()
		pd.Parent1, pd.Parent2 = ref(a), ref(b)
		for _, rt := range genealogy.RelativeTypes {
			if rels := indices(p.Relatives(rt)); rels != nil {
				if pd.Relatives == nil {
					pd.Relatives = make(map[string][]int)
				}
				pd.Relatives[rt.String()] = rels
			}
		}
		if mp := p.MainPicture(); mp != nil {
			pd.MainPicture = mp.Name()
		}
		doc.Persons[i] = pd
	}
	if root := tree.Root(); root != nil {
		doc.Root = ref(root)
	}

	for _, e := range tree.LifeEvents() {
		ed := LifeEventDescriptor{
			ID:        e.ID().String(),
			Type:      e.Type().Key().String(),
			Date:      EncodeDate(e.Date()),
			Actors:    indices(e.Actors()),
			Witnesses: indices(e.Witnesses()),
			Notes:     e.Notes(),
			Sources:   e.Sources(),
			Pictures:  pictureNames(e.Pictures()),
		}
		if pl := e.Place(); pl != nil {
			ed.Place = &PlaceDescriptor{Address: pl.Address}
			if pl.LatLon != nil {
				ed.Place.Lat, ed.Place.Lon = &pl.LatLon.Lat, &pl.LatLon.Lon
			}
		}
		if mp := e.MainPicture(); mp != nil {
			ed.MainPicture = mp.Name()
		}
		doc.LifeEvents = append(doc.LifeEvents, ed)
	}
	return doc
}

func pictureNames(pics []*genealogy.Picture) []string {
	if len(pics) == 0 {
		return nil
	}
	out := make([]string, len(pics))
	for i, p := range pics {
		out[i] = p.Name()
	}
	return out
}

func emptyToNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
