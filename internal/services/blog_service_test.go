package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Caring for Gold Jewelry":        "caring-for-gold-jewelry",
		"  Spaces   everywhere  ":        "spaces-everywhere",
		"Symbols & Punctuation: a guide": "symbols-punctuation-a-guide",
		"Top 10 Rings of 2026":           "top-10-rings-of-2026",
		"---":                            "",
	}

	for title, want := range cases {
		assert.Equal(t, want, Slugify(title), "title %q", title)
	}
}
