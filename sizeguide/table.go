// Package sizeguide serves the storefront's garment measurement charts.
// All measurements are in centimetres.
package sizeguide

import (
	"fmt"
	"strings"
)

type Category struct {
	s string
}

var (
	Men   = Category{"men"}
	Women = Category{"women"}
	Boys  = Category{"boys"}
	Girls = Category{"girls"}
)

func (c Category) String() string {
	return c.s
}

func (c Category) IsKids() bool {
	return c == Boys || c == Girls
}

// MakeFromString resolves a category tag. Unknown tags fall back to Men.
func MakeFromString(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Women.s:
		return Women
	case Boys.s:
		return Boys
	case Girls.s:
		return Girls
	}
	return Men
}

type Measurement struct {
	Size      string `json:"size"`
	Chest     string `json:"chest"`
	Shoulders string `json:"shoulders"`
	Length    string `json:"length"`
	Sleeve    string `json:"sleeve"`
	Age       string `json:"age,omitempty"`
}

type Tip struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Chart struct {
	Category string        `json:"category"`
	Unit     string        `json:"unit"`
	Sizes    []Measurement `json:"sizes"`
	HowTo    []Tip         `json:"howToMeasure"`
	FitTips  []string      `json:"fitTips"`
}

var charts = map[Category][]Measurement{
	Men: {
		{Size: "XS", Chest: "86-91", Shoulders: "42", Length: "66", Sleeve: "58"},
		{Size: "S", Chest: "91-96", Shoulders: "44", Length: "68", Sleeve: "60"},
		{Size: "M", Chest: "96-101", Shoulders: "46", Length: "70", Sleeve: "62"},
		{Size: "L", Chest: "101-106", Shoulders: "48", Length: "72", Sleeve: "64"},
		{Size: "XL", Chest: "106-111", Shoulders: "50", Length: "74", Sleeve: "66"},
		{Size: "XXL", Chest: "111-116", Shoulders: "52", Length: "76", Sleeve: "68"},
	},
	Women: {
		{Size: "XS", Chest: "76-81", Shoulders: "36", Length: "58", Sleeve: "54"},
		{Size: "S", Chest: "81-86", Shoulders: "38", Length: "60", Sleeve: "55"},
		{Size: "M", Chest: "86-91", Shoulders: "40", Length: "62", Sleeve: "56"},
		{Size: "L", Chest: "91-96", Shoulders: "42", Length: "64", Sleeve: "57"},
		{Size: "XL", Chest: "96-101", Shoulders: "44", Length: "66", Sleeve: "58"},
		{Size: "XXL", Chest: "101-106", Shoulders: "46", Length: "68", Sleeve: "59"},
	},
	Boys: {
		{Size: "XS", Chest: "56-61", Shoulders: "28", Length: "42", Sleeve: "38", Age: "4-5 yrs"},
		{Size: "S", Chest: "61-66", Shoulders: "30", Length: "46", Sleeve: "42", Age: "6-7 yrs"},
		{Size: "M", Chest: "66-71", Shoulders: "32", Length: "50", Sleeve: "46", Age: "8-9 yrs"},
		{Size: "L", Chest: "71-76", Shoulders: "34", Length: "54", Sleeve: "50", Age: "10-11 yrs"},
		{Size: "XL", Chest: "76-81", Shoulders: "36", Length: "58", Sleeve: "54", Age: "12-13 yrs"},
	},
	Girls: {
		{Size: "XS", Chest: "54-59", Shoulders: "27", Length: "40", Sleeve: "36", Age: "4-5 yrs"},
		{Size: "S", Chest: "59-64", Shoulders: "29", Length: "44", Sleeve: "40", Age: "6-7 yrs"},
		{Size: "M", Chest: "64-69", Shoulders: "31", Length: "48", Sleeve: "44", Age: "8-9 yrs"},
		{Size: "L", Chest: "69-74", Shoulders: "33", Length: "52", Sleeve: "48", Age: "10-11 yrs"},
		{Size: "XL", Chest: "74-79", Shoulders: "35", Length: "56", Sleeve: "52", Age: "12-13 yrs"},
	},
}

var howToMeasure = []Tip{
	{Name: "Chest", Description: "Measure around the fullest part of your chest, keeping the tape horizontal."},
	{Name: "Shoulders", Description: "Measure from one shoulder point to the other across your upper back."},
	{Name: "Length", Description: "Measure from the highest point of the shoulder to the desired hem."},
	{Name: "Sleeve", Description: "Measure from the shoulder seam to the wrist with arm slightly bent."},
}

var fitTips = []string{
	"If you're between sizes, we recommend sizing up for a relaxed fit",
	"For a slim fit, choose your regular size",
	"Measure a garment that fits you well and compare with our chart",
}

const kidsFitTip = "Age ranges are approximate; always check measurements"

func ChartFor(c Category) Chart {
	sizes := make([]Measurement, len(charts[c]))
	copy(sizes, charts[c])

	tips := append([]string(nil), fitTips...)
	if c.IsKids() {
		tips = append(tips, kidsFitTip)
	}

	return Chart{
		Category: c.String(),
		Unit:     "cm",
		Sizes:    sizes,
		HowTo:    append([]Tip(nil), howToMeasure...),
		FitTips:  tips,
	}
}

func Lookup(c Category, size string) (Measurement, error) {
	size = strings.ToUpper(strings.TrimSpace(size))
	for _, m := range charts[c] {
		if m.Size == size {
			return m, nil
		}
	}
	return Measurement{}, fmt.Errorf("unknown size %q for %s", size, c)
}
