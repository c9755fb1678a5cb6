// inputs.go
//
// Generic admin list views, column selection and inline editing for GORM models
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of gutils-admin.
// gutils-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// gutils-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with gutils-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package forms

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// DateLayout is the widget format of date values
const DateLayout = "2006-01-02"

// Text is a single line string input
type Text struct {
	MaxLength int
	MinLength int
	Multiline bool
}

func (t Text) Clean(data Values, name string) (any, error) {
	value := strings.TrimSpace(data.Get(name))
	n := len([]rune(value))
	if t.MaxLength > 0 && n > t.MaxLength {
		return nil, fmt.Errorf("ensure this value has at most %d characters (it has %d)", t.MaxLength, n)
	}
	if t.MinLength > 0 && n > 0 && n < t.MinLength {
		return nil, fmt.Errorf("ensure this value has at least %d characters (it has %d)", t.MinLength, n)
	}
	return value, nil
}

func (t Text) Render(name, id string, data Values, initial any) template.HTML {
	value := submitted(data, name, initial)
	if t.Multiline {
		return template.HTML(fmt.Sprintf(`<textarea name="%s"%s rows="3">%s</textarea>`,
			attr(name), idAttr(id), html.EscapeString(value)))
	}
	maxLength := ""
	if t.MaxLength > 0 {
		maxLength = fmt.Sprintf(` maxlength="%d"`, t.MaxLength)
	}
	return template.HTML(fmt.Sprintf(`<input type="text" name="%s"%s value="%s"%s>`,
		attr(name), idAttr(id), attr(value), maxLength))
}

// Integer accepts whole numbers within optional bounds
type Integer struct {
	Min *int64
	Max *int64
}

func (i Integer) Clean(data Values, name string) (any, error) {
	raw := strings.TrimSpace(data.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("enter a whole number")
	}
	if i.Min != nil && n < *i.Min {
		return nil, fmt.Errorf("ensure this value is greater than or equal to %d", *i.Min)
	}
	if i.Max != nil && n > *i.Max {
		return nil, fmt.Errorf("ensure this value is less than or equal to %d", *i.Max)
	}
	return n, nil
}

func (i Integer) Render(name, id string, data Values, initial any) template.HTML {
	return template.HTML(fmt.Sprintf(`<input type="number" name="%s"%s value="%s">`,
		attr(name), idAttr(id), attr(submitted(data, name, initial))))
}

// Decimal accepts fixed point numbers rounded to Places
type Decimal struct {
	Places int32
	Min    *decimal.Decimal
}

func (d Decimal) Clean(data Values, name string) (any, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(data.Get(name)), ",", ".")
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.New("enter a number")
	}
	if d.Min != nil && value.LessThan(*d.Min) {
		return nil, fmt.Errorf("ensure this value is greater than or equal to %s", d.Min.String())
	}
	return value.Round(d.Places), nil
}

func (d Decimal) Render(name, id string, data Values, initial any) template.HTML {
	value := submitted(data, name, nil)
	if data == nil {
		if v, ok := initial.(decimal.Decimal); ok {
			value = v.StringFixed(d.Places)
		} else {
			value = format(initial)
		}
	}
	return template.HTML(fmt.Sprintf(`<input type="text" name="%s"%s value="%s" inputmode="decimal">`,
		attr(name), idAttr(id), attr(value)))
}

// Checkbox is a boolean, a missing value is false
type Checkbox struct{}

func (Checkbox) Clean(data Values, name string) (any, error) {
	return truthy(data.Get(name)), nil
}

func (Checkbox) Render(name, id string, data Values, initial any) template.HTML {
	checked := false
	if data != nil {
		checked = truthy(data.Get(name))
	} else if b, ok := initial.(bool); ok {
		checked = b
	}
	c := ""
	if checked {
		c = " checked"
	}
	return template.HTML(fmt.Sprintf(`<input type="checkbox" name="%s"%s value="1"%s>`, attr(name), idAttr(id), c))
}

// NullBool is a three state select, unknown cleans to nil
type NullBool struct{}

func (NullBool) Clean(data Values, name string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(data.Get(name))) {
	case "1", "true", "yes", "on", "2":
		v := true
		return &v, nil
	case "0", "false", "no", "off", "3":
		v := false
		return &v, nil
	}
	return (*bool)(nil), nil
}

func (NullBool) Render(name, id string, data Values, initial any) template.HTML {
	current := submitted(data, name, initial)
	var b strings.Builder
	fmt.Fprintf(&b, `<select name="%s"%s>`, attr(name), idAttr(id))
	for _, o := range [][2]string{{"", "Unknown"}, {"true", "Yes"}, {"false", "No"}} {
		selected := ""
		if o[0] == current {
			selected = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, o[0], selected, o[1])
	}
	b.WriteString("</select>")
	return template.HTML(b.String())
}

// Date parses dates in any common layout and truncates them to the day
type Date struct {
	Location *time.Location
}

func (d Date) Clean(data Values, name string) (any, error) {
	raw := strings.TrimSpace(data.Get(name))
	if raw == "" {
		return nil, nil
	}
	return parseDate(raw, d.Location)
}

func (d Date) Render(name, id string, data Values, initial any) template.HTML {
	return template.HTML(fmt.Sprintf(`<input type="date" name="%s"%s value="%s">`,
		attr(name), idAttr(id), attr(submitted(data, name, initial))))
}

// DateRange is an inclusive range of days, either end may be open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether neither end is set
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// DateRangeInput reads two dates submitted as <name>_0 and <name>_1
type DateRangeInput struct {
	Location *time.Location
}

func (d DateRangeInput) Clean(data Values, name string) (any, error) {
	var r DateRange
	for i, target := range []*time.Time{&r.From, &r.To} {
		raw := strings.TrimSpace(data.Get(fmt.Sprintf("%s_%d", name, i)))
		if raw == "" {
			continue
		}
		t, err := parseDate(raw, d.Location)
		if err != nil {
			return nil, err
		}
		*target = t
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return nil, errors.New("the end of the range is before its start")
	}
	return r, nil
}

func (d DateRangeInput) Render(name, id string, data Values, initial any) template.HTML {
	var values [2]string
	if r, ok := initial.(DateRange); ok && data == nil {
		values[0], values[1] = format(r.From), format(r.To)
	}
	var b strings.Builder
	for i := range values {
		key := fmt.Sprintf("%s_%d", name, i)
		if data != nil {
			values[i] = data.Get(key)
		}
		wid := ""
		if id != "" {
			wid = fmt.Sprintf("%s_%d", id, i)
		}
		fmt.Fprintf(&b, `<input type="date" name="%s"%s value="%s">`, attr(key), idAttr(wid), attr(values[i]))
	}
	return template.HTML(b.String())
}

// Choice is an option of a select input
type Choice struct {
	Value string
	Label string
}

// Select accepts one of its choices, the empty value is always accepted
type Select struct {
	Choices []Choice
}

func (s Select) Clean(data Values, name string) (any, error) {
	value := strings.TrimSpace(data.Get(name))
	if value == "" {
		return "", nil
	}
	for _, c := range s.Choices {
		if c.Value == value {
			return value, nil
		}
	}
	return nil, fmt.Errorf("select a valid choice, %s is not one of the available choices", value)
}

func (s Select) Render(name, id string, data Values, initial any) template.HTML {
	return renderOptions(name, id, s.Choices, false, selectedSet(data, name, initial))
}

// MultiSelect accepts any subset of its choices
type MultiSelect struct {
	Choices []Choice
}

func (s MultiSelect) Clean(data Values, name string) (any, error) {
	values := []string{}
	for _, value := range data[name] {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		found := false
		for _, c := range s.Choices {
			if c.Value == value {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("select a valid choice, %s is not one of the available choices", value)
		}
		values = append(values, value)
	}
	return values, nil
}

func (s MultiSelect) Render(name, id string, data Values, initial any) template.HTML {
	return renderOptions(name, id, s.Choices, true, selectedSet(data, name, initial))
}

// IntList accepts a list of positive integers, comma separated or repeated
type IntList struct{}

func (IntList) Clean(data Values, name string) (any, error) {
	values := []int64{}
	for _, raw := range data[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%q is not a valid id", part)
			}
			values = append(values, n)
		}
	}
	return values, nil
}

func (IntList) Render(name, id string, data Values, initial any) template.HTML {
	value := ""
	if data != nil {
		value = strings.Join(data[name], ",")
	}
	return template.HTML(fmt.Sprintf(`<input type="text" name="%s"%s value="%s">`, attr(name), idAttr(id), attr(value)))
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, errors.New("enter a valid date")
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}

func submitted(data Values, name string, initial any) string {
	if data != nil {
		return data.Get(name)
	}
	return format(initial)
}

func selectedSet(data Values, name string, initial any) map[string]bool {
	set := map[string]bool{}
	if data != nil {
		for _, v := range data[name] {
			set[v] = true
		}
		return set
	}
	switch v := initial.(type) {
	case []string:
		for _, s := range v {
			set[s] = true
		}
	case nil:
	default:
		set[format(v)] = true
	}
	return set
}

func renderOptions(name, id string, choices []Choice, multiple bool, selected map[string]bool) template.HTML {
	var b strings.Builder
	m := ""
	if multiple {
		m = " multiple"
	}
	fmt.Fprintf(&b, `<select name="%s"%s%s>`, attr(name), idAttr(id), m)
	if !multiple {
		b.WriteString(`<option value="">---------</option>`)
	}
	for _, c := range choices {
		s := ""
		if selected[c.Value] {
			s = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, attr(c.Value), s, html.EscapeString(c.Label))
	}
	b.WriteString("</select>")
	return template.HTML(b.String())
}

func format(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(DateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return format(*v)
	case bool:
		return strconv.FormatBool(v)
	case *bool:
		if v == nil {
			return ""
		}
		return strconv.FormatBool(*v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

func attr(s string) string {
	return html.EscapeString(s)
}

func idAttr(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(` id="%s"`, attr(id))
}
