// Package catalog loads the bookable rooms and activities from a YAML file.
package catalog

import (
	"fmt"
	"os"

	"resorthub/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// Room is a bookable room type with a nightly rate.
type Room struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	PricePerDay int64  `yaml:"price_per_day" json:"pricePerDay"`
	MaxGuests   int    `yaml:"max_guests" json:"maxGuests"`
}

// Activity is a bookable resort activity with a per-person price.
type Activity struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	Description    string `yaml:"description" json:"description"`
	PricePerPerson int64  `yaml:"price_per_person" json:"pricePerPerson"`
	Duration       string `yaml:"duration" json:"duration"`
}

// Catalog holds everything guests can put in a cart.
type Catalog struct {
	Rooms      []Room     `yaml:"rooms" json:"rooms"`
	Activities []Activity `yaml:"activities" json:"activities"`
}

// Load reads the catalog from a YAML file.
func Load(path string, logger *zerolog.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", path).Msg("read catalog")
		return nil, err
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		logger.Error().Err(err).Str("catalog_path", path).Msg("parse catalog")
		return nil, err
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("rooms", len(cat.Rooms)).
		Int("activities", len(cat.Activities)).
		Msg("catalog loaded")

	return &cat, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool)
	for _, room := range c.Rooms {
		if room.ID == "" {
			return fmt.Errorf("room %q has no id", room.Name)
		}
		if seen[room.ID] {
			return fmt.Errorf("duplicate catalog id %q", room.ID)
		}
		seen[room.ID] = true
		if room.PricePerDay < 0 {
			return fmt.Errorf("room %q has negative price", room.ID)
		}
	}
	for _, activity := range c.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity %q has no id", activity.Name)
		}
		if seen[activity.ID] {
			return fmt.Errorf("duplicate catalog id %q", activity.ID)
		}
		seen[activity.ID] = true
		if activity.PricePerPerson < 0 {
			return fmt.Errorf("activity %q has negative price", activity.ID)
		}
	}
	return nil
}

// FindRoom returns the room with the given id, or nil.
func (c *Catalog) FindRoom(id string) *Room {
	for i := range c.Rooms {
		if c.Rooms[i].ID == id {
			return &c.Rooms[i]
		}
	}
	return nil
}

// FindActivity returns the activity with the given id, or nil.
func (c *Catalog) FindActivity(id string) *Activity {
	for i := range c.Activities {
		if c.Activities[i].ID == id {
			return &c.Activities[i]
		}
	}
	return nil
}

// LineItem builds a cart line item from a room entry.
func (r *Room) LineItem(guests int) models.LineItem {
	return models.LineItem{
		Type:        models.ItemTypeRoom,
		Title:       r.Name,
		Description: r.Description,
		Price:       r.PricePerDay,
		Quantity:    1,
		Guests:      guests,
	}
}

// LineItem builds a cart line item from an activity entry.
func (a *Activity) LineItem(quantity int) models.LineItem {
	return models.LineItem{
		Type:        models.ItemTypeActivity,
		Title:       a.Name,
		Description: a.Description,
		Price:       a.PricePerPerson,
		Quantity:    quantity,
		Duration:    a.Duration,
	}
}
