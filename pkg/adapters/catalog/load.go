package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads tables from a YAML or JSON file, chosen by extension.
// An empty path returns the built-in tables.
func Load(path string) (Tables, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read catalog: %w", err)
	}

	var t Tables
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &t); err != nil {
			return Tables{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &t); err != nil {
			return Tables{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return t, nil
}

// Validate checks referential integrity. Broken item references and
// duplicate ids are errors; dangling related ids are only warnings because
// the gateway drops them.
func Validate(t Tables) (warnings []string, err error) {
	var errs []error

	seats := make(map[string]bool)
	for _, s := range t.Seats {
		if s.ID == "" {
			errs = append(errs, errors.New("seat with empty id"))
			continue
		}
		if seats[s.ID] {
			errs = append(errs, fmt.Errorf("duplicate seat %q", s.ID))
		}
		seats[s.ID] = true
	}

	biblios := make(map[string]bool)
	for _, b := range t.Biblios {
		if b.ID == "" {
			errs = append(errs, fmt.Errorf("biblio %q has empty id", b.Title))
			continue
		}
		if biblios[b.ID] {
			errs = append(errs, fmt.Errorf("duplicate biblio %q", b.ID))
		}
		biblios[b.ID] = true
	}

	items := make(map[string]string)
	for _, it := range t.Items {
		if _, dup := items[it.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate item %q", it.ID))
		}
		items[it.ID] = it.BiblioID
		if !biblios[it.BiblioID] {
			errs = append(errs, fmt.Errorf("item %q references unknown biblio %q", it.ID, it.BiblioID))
		}
	}

	for _, b := range t.Biblios {
		for _, id := range b.ItemIDs {
			owner, ok := items[id]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("biblio %q lists unknown item %q", b.ID, id))
			case owner != b.ID:
				errs = append(errs, fmt.Errorf("biblio %q lists item %q owned by %q", b.ID, id, owner))
			}
		}
		for _, id := range b.RelatedBiblioIDs {
			if !biblios[id] {
				warnings = append(warnings, fmt.Sprintf("biblio %q relates to unknown biblio %q", b.ID, id))
			}
		}
	}

	return warnings, errors.Join(errs...)
}
