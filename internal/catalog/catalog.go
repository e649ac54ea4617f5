package catalog

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var hundred = decimal.NewFromInt(100)

type Lecture struct {
	ID          string
	Title       string
	Lector      string
	Price       decimal.Decimal
	MediaFileID string
}

type Conference struct {
	ID       string
	Title    string
	Label    string
	Price    decimal.Decimal
	Lectures []Lecture
	byID     map[string]int
}

func (c *Conference) Lecture(id string) (Lecture, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Lecture{}, false
	}
	return c.Lectures[i], true
}

func (c *Conference) LectureIDs() []string {
	ids := make([]string, 0, len(c.Lectures))
	for _, l := range c.Lectures {
		ids = append(ids, l.ID)
	}
	return ids
}

// IsMerch reports whether the conference holds physical goods that need shipping.
func (c *Conference) IsMerch() bool {
	return c.ID == domain.MerchConferenceID
}

type Catalog struct {
	conferences map[string]*Conference
	order       []string
}

type fileLecture struct {
	Title       string `yaml:"title"`
	Lector      string `yaml:"lector"`
	Price       string `yaml:"price"`
	MediaFileID string `yaml:"media_file_id"`
}

type fileConference struct {
	Title    string                 `yaml:"title"`
	Label    string                 `yaml:"label"`
	Price    string                 `yaml:"price"`
	Lectures map[string]fileLecture `yaml:"lectures"`
}

type file struct {
	Conferences map[string]fileConference `yaml:"conferences"`
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Conferences) == 0 {
		return nil, fmt.Errorf("catalog has no conferences")
	}

	c := &Catalog{conferences: make(map[string]*Conference, len(f.Conferences))}
	for id, fc := range f.Conferences {
		conf, err := buildConference(id, fc)
		if err != nil {
			return nil, err
		}
		c.conferences[id] = conf
		c.order = append(c.order, id)
	}
	sortIDs(c.order)
	return c, nil
}

func buildConference(id string, fc fileConference) (*Conference, error) {
	if len(fc.Lectures) == 0 {
		return nil, fmt.Errorf("conference %s has no lectures", id)
	}
	price, err := parsePrice(fc.Price)
	if err != nil {
		return nil, fmt.Errorf("conference %s: %w", id, err)
	}

	conf := &Conference{
		ID:    id,
		Title: fc.Title,
		Label: fc.Label,
		Price: price,
		byID:  make(map[string]int, len(fc.Lectures)),
	}

	ids := make([]string, 0, len(fc.Lectures))
	for lid := range fc.Lectures {
		ids = append(ids, lid)
	}
	sortIDs(ids)

	for _, lid := range ids {
		fl := fc.Lectures[lid]
		lprice, err := parsePrice(fl.Price)
		if err != nil {
			return nil, fmt.Errorf("conference %s lecture %s: %w", id, lid, err)
		}
		conf.byID[lid] = len(conf.Lectures)
		conf.Lectures = append(conf.Lectures, Lecture{
			ID:          lid,
			Title:       fl.Title,
			Lector:      fl.Lector,
			Price:       lprice,
			MediaFileID: fl.MediaFileID,
		})
	}
	return conf, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("price is missing")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price %s", s)
	}
	return d, nil
}

// sortIDs orders numeric ids numerically and the rest lexicographically after them.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}

func (c *Catalog) Conference(id string) (*Conference, bool) {
	conf, ok := c.conferences[id]
	return conf, ok
}

func (c *Catalog) Conferences() []*Conference {
	out := make([]*Conference, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.conferences[id])
	}
	return out
}

// ToMinor converts a major-unit price to minor units, rounding half away from zero.
func ToMinor(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}
