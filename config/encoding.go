package config

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// nil means strict UTF-8 (the shipped data is plain ASCII)
var currentCharMap *charmap.Charmap

func SetEncoding(name string) error {
	if name == "" || strings.EqualFold(name, "utf-8") {
		currentCharMap = nil
		return nil
	}
	cm, err := lookupCharmap(name)
	if err != nil {
		return err
	}
	currentCharMap = cm
	return nil
}

func lookupCharmap(name string) (*charmap.Charmap, error) {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if strings.EqualFold(cm.String(), name) {
				return cm, nil
			}
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := []string{"utf-8"}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

// GetEncoding returns nil when strings are decoded as strict UTF-8.
func GetEncoding() *charmap.Charmap {
	return currentCharMap
}
