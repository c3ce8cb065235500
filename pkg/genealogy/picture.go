package genealogy

import (
	"strings"

	"github.com/dyluth/lineage/pkg/datetime"
	"github.com/dyluth/lineage/pkg/errs"
)

// Picture is the metadata of an image attached to persons or events. Image
// bytes live outside the model, behind Location.
type Picture struct {
	name        string
	description string
	date        datetime.DateTime
	location    string
}

// NewPicture returns a picture identified by its file name.
func NewPicture(name, location string) (*Picture, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.New(errs.ErrInvalidValue, "picture name must be set")
	}
	return &Picture{name: name, location: location}, nil
}

func (p *Picture) Name() string            { return p.name }
func (p *Picture) Description() string     { return p.description }
func (p *Picture) Date() datetime.DateTime { return p.date }
func (p *Picture) Location() string        { return p.location }
func (p *Picture) SetDescription(s string) { p.description = s }
func (p *Picture) SetLocation(s string)    { p.location = s }

// SetDate sets or clears (nil) the date the picture was taken.
func (p *Picture) SetDate(d datetime.DateTime) error {
	if err := datetime.Validate(d); err != nil {
		return err
	}
	p.date = d
	return nil
}

// GenealogyObject is an entity pictures can be attached to.
// It is implemented by *Person and *LifeEvent.
type GenealogyObject interface {
	Pictures() []*Picture
	MainPicture() *Picture
	holder() *pictureHolder
	owner() *FamilyTree
}

// pictureHolder is embedded in every GenealogyObject.
type pictureHolder struct {
	pictures    orderedSet[*Picture]
	mainPicture *Picture
}

func (h *pictureHolder) holder() *pictureHolder { return h }

// Pictures returns the attached pictures in attachment order.
func (h *pictureHolder) Pictures() []*Picture { return h.pictures.values() }

// MainPicture returns the picture used as avatar, or nil.
func (h *pictureHolder) MainPicture() *Picture { return h.mainPicture }

func (h *pictureHolder) detach(pic *Picture) {
	h.pictures.remove(pic)
	if h.mainPicture == pic {
		h.mainPicture = nil
	}
}

func (p *Person) owner() *FamilyTree    { return p.tree }
func (e *LifeEvent) owner() *FamilyTree { return e.tree }
