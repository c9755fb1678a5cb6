// kinds.go
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

package columns

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/shopspring/decimal"
)

// Displayer formats the value of a bound column for one record.
// The returned bool marks the text as trusted html.
type Displayer interface {
	Display(b *Bound, item any) (string, bool)
}

type defaults struct {
	style       string
	shortHeader bool
	noSort      bool
}

type defaulter interface {
	defaults() defaults
}

func defaultsOf(d Displayer) defaults {
	if k, ok := d.(defaulter); ok {
		return k.defaults()
	}
	return defaults{}
}

// Integer shows the column Default, or 0, for empty values
type Integer struct{}

func (Integer) defaults() defaults { return defaults{style: "int"} }

func (Integer) Display(b *Bound, item any) (string, bool) {
	value := b.GetValue(item)
	if isFalsy(value) {
		if b.Default != "" {
			return b.Default, false
		}
		return "0", false
	}
	return Stringify(value), false
}

// Percent colors a 0-100 value
type Percent struct{}

func (Percent) defaults() defaults { return defaults{style: "int", shortHeader: true} }

func (Percent) Display(b *Bound, item any) (string, bool) {
	value, ok := toDecimal(b.GetValue(item))
	if !ok {
		return "", false
	}
	color := "orange"
	switch {
	case value.GreaterThan(decimal.NewFromInt(95)):
		color = "green"
	case value.LessThanOrEqual(decimal.NewFromInt(10)):
		color = "red"
	}
	return fmt.Sprintf(`<span class="%s">%s%%</span>`, color, value.String()), true
}

// Decimal quantizes and groups numbers in the language of the view
type Decimal struct {
	// Places is the number of decimals, 2 when nil.
	Places       *int32
	DiscardZeros bool
	Colorize     bool
	Sign         bool
	Color        string
}

func (Decimal) defaults() defaults { return defaults{style: "decimal"} }

// Places returns a Decimal precision of n decimals
func Places(n int32) *int32 {
	return &n
}

func (d Decimal) Display(b *Bound, item any) (string, bool) {
	raw := b.GetValue(item)
	if raw == nil {
		return "", false
	}
	value, ok := toDecimal(raw)
	if !ok {
		return Stringify(raw), false
	}
	if value.IsZero() && b.Default != "" {
		return b.Default, false
	}
	places := int32(2)
	if d.Places != nil {
		places = *d.Places
	}
	value = value.Round(places)
	if d.DiscardZeros && value.Equal(value.Truncate(0)) {
		places = 0
	}
	text := b.env.FormatDecimal(value, places)
	if d.Sign && value.IsPositive() {
		text = "+" + text
	}
	color := d.Color
	if d.Colorize {
		color = "green"
		if value.IsNegative() {
			color = "red"
		}
	}
	if color != "" {
		return fmt.Sprintf(`<span class="%s">%s</span>`, color, html.EscapeString(text)), true
	}
	return text, false
}

// Bool renders a yes/no icon
type Bool struct {
	Icons [2]string
}

func (Bool) defaults() defaults { return defaults{style: "bool", shortHeader: true} }

func (k Bool) Display(b *Bound, item any) (string, bool) {
	value := b.GetValue(item)
	if p, ok := value.(*bool); ok {
		if p == nil {
			return "", false
		}
		value = *p
	}
	if value == nil {
		return "", false
	}
	icons := k.Icons
	if icons[0] == "" {
		icons = [2]string{"fa-check-circle green", "fa-times-circle red"}
	}
	icon := icons[1]
	if !isFalsy(value) {
		icon = icons[0]
	}
	title := ""
	if t := b.TooltipValue(item); t != "" {
		title = fmt.Sprintf(` title="%s"`, html.EscapeString(t))
	}
	return fmt.Sprintf(`<span class="fa %s"%s></span>`, icon, title), true
}

// Text shows long strings, optionally without markup, cut to the column Trim
type Text struct {
	StripTags bool
}

func (Text) defaults() defaults { return defaults{style: "text", noSort: true} }

func (k Text) Display(b *Bound, item any) (string, bool) {
	value := Stringify(b.GetValue(item))
	if k.StripTags {
		value = StripTags(value)
	}
	if b.Trim > 0 {
		value = Truncate(value, b.Trim)
	}
	return value, false
}

// DateTime formats times, Short shows the date with the full value as title
type DateTime struct {
	Layout string
	Short  bool
}

func (DateTime) defaults() defaults { return defaults{style: "datetime"} }

func (k DateTime) Display(b *Bound, item any) (string, bool) {
	var t time.Time
	switch v := b.GetValue(item).(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v != nil {
			t = *v
		}
	}
	if t.IsZero() {
		return "", false
	}
	full := html.EscapeString(formatTime(t, k.Layout))
	if k.Short {
		return fmt.Sprintf(`<span title="%s">%s</span>`, full, t.Format(DateLayout)), true
	}
	return full, true
}

// Option is one known value of a Typed column
type Option struct {
	Value string
	Label string
	Icon  string
	Style string
}

// Typed renders a labelled choice with its icon and style
type Typed struct {
	Options  []Option
	OnlyIcon bool
}

func (Typed) defaults() defaults { return defaults{style: "typed"} }

func (k Typed) Display(b *Bound, item any) (string, bool) {
	value := Stringify(b.GetValue(item))
	option := Option{Value: value, Label: value}
	for _, o := range k.Options {
		if o.Value == value {
			option = o
			break
		}
	}
	label := html.EscapeString(option.Label)
	icon := ""
	if option.Icon != "" {
		icon = fmt.Sprintf(`<span class="fa %s" title="%s"></span>`, option.Icon, label)
	}
	switch {
	case k.OnlyIcon:
		return fmt.Sprintf(`<span class="%s">%s</span>`, option.Style, icon), true
	case icon != "":
		return fmt.Sprintf(`<span class="%s">%s %s</span>`, option.Style, icon, label), true
	}
	return fmt.Sprintf(`<span class="%s">%s</span>`, option.Style, label), true
}

// ManyRelation lists the items of a relation
type ManyRelation struct {
	InnerField string
	Separator  string
}

func (ManyRelation) defaults() defaults { return defaults{style: "object", noSort: true} }

func (k ManyRelation) Display(b *Bound, item any) (string, bool) {
	list, ok := b.GetValue(item).(Lister)
	if !ok {
		return "", false
	}
	sep := k.Separator
	if sep == "" {
		sep = "<br/>"
	}
	parts := []string{}
	for _, related := range list.All() {
		value := related
		if k.InnerField != "" {
			value, _ = Resolve(related, k.InnerField)
		}
		parts = append(parts, html.EscapeString(Stringify(value)))
	}
	return strings.Join(parts, sep), true
}

// Multi joins the non empty values of several fields
type Multi struct {
	Fields    []string
	Separator string
}

func (Multi) defaults() defaults { return defaults{style: "text", noSort: true} }

func (k Multi) Display(b *Bound, item any) (string, bool) {
	sep := k.Separator
	if sep == "" {
		sep = ", "
	}
	parts := []string{}
	for _, f := range k.Fields {
		v, _ := Resolve(item, f)
		if s := Stringify(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep), false
}

// URL renders the value as a link.
// Href is either a fixed url or a fmt pattern filled with the Args attributes.
type URL struct {
	Href     string
	Args     []string
	HrefFunc func(item any) string
	Icon     string
	Text     string
	Popup    bool
	Confirm  string
	Target   bool
	NonEmpty bool
	ID       string
}

func (URL) defaults() defaults { return defaults{style: "url"} }

func (k URL) Display(b *Bound, item any) (string, bool) {
	return k.anchor(b, item, k.href(item), Stringify(b.GetValue(item)))
}

func (k URL) href(item any) string {
	if k.HrefFunc != nil {
		return k.HrefFunc(item)
	}
	if !strings.Contains(k.Href, "%") {
		return k.Href
	}
	names := k.Args
	if len(names) == 0 {
		names = []string{"pk"}
	}
	args := make([]any, 0, len(names))
	for _, name := range names {
		v, ok := Resolve(item, name)
		if !ok || v == nil {
			return ""
		}
		args = append(args, v)
	}
	return fmt.Sprintf(k.Href, args...)
}

func (k URL) anchor(b *Bound, item any, href, value string) (string, bool) {
	attrs := map[string]string{}
	title := b.TooltipValue(item)
	if title == "" {
		title = b.VerboseName
	}
	attrs["title"] = title
	class := b.StyleClass()
	if k.Popup {
		class += " popup"
	}
	attrs["class"] = class
	if k.ID != "" {
		attrs["id"] = k.ID
	}
	attrs["href"] = href
	if k.Confirm != "" {
		attrs["onclick"] = fmt.Sprintf("return confirm('%s')", template.JSEscapeString(k.Confirm))
	}
	if k.Target {
		attrs["target"] = "_blank"
	}

	var content string
	switch {
	case k.Icon != "":
		icon := k.Icon
		if strings.Contains(icon, ",") {
			icons := strings.Split(icon, ",")
			i, _ := strconv.Atoi(value)
			if i < 0 || i >= len(icons) {
				i = 0
			}
			icon = icons[i]
		}
		content = fmt.Sprintf(`<span class="fa %s"></span>`, strings.TrimSpace(icon))
	case k.Text != "":
		content = html.EscapeString(k.Text)
	default:
		value = StripTags(value)
		if k.NonEmpty && value == "" {
			value = "None"
		}
		content = html.EscapeString(value)
	}
	for key, v := range attrs {
		if strings.TrimSpace(v) == "" {
			delete(attrs, key)
		}
	}
	return fmt.Sprintf(`<a %s>%s</a>`, Attrs(attrs), content), true
}

// Edit links a record to its edit page, empty values show the primary key
type Edit struct {
	URL
}

func (Edit) defaults() defaults { return defaults{style: "edit"} }

func (k Edit) Display(b *Bound, item any) (string, bool) {
	href := ""
	if k.HrefFunc != nil || k.Href != "" {
		href = k.href(item)
	} else if b.env.EditURL != nil {
		href = b.env.EditURL(item)
	}
	value := Stringify(b.GetValue(item))
	if value == "" {
		pk, _ := Resolve(item, "pk")
		value = fmt.Sprintf("#%v", pk)
	}
	return k.anchor(b, item, href, value)
}

// Separator is a fixed cell between column groups
type Separator struct {
	Icon string
	Text string
}

func (Separator) defaults() defaults { return defaults{style: "separator", noSort: true} }

func (k Separator) Display(b *Bound, item any) (string, bool) {
	if k.Icon != "" {
		return fmt.Sprintf(`<span class="%s">%s</span>`, k.Icon, html.EscapeString(k.Text)), true
	}
	return html.EscapeString(k.Text), true
}

// Template renders a cell from an html template executed with {"item": record}
type Template struct {
	tmpl *template.Template
}

// NewTemplate parses src with the sprig function map, it panics on invalid templates
func NewTemplate(src string) Template {
	return Template{tmpl: template.Must(template.New("cell").Funcs(sprig.FuncMap()).Parse(src))}
}

func (Template) defaults() defaults { return defaults{noSort: true} }

func (k Template) Display(b *Bound, item any) (string, bool) {
	if k.tmpl == nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := k.tmpl.Execute(&buf, map[string]any{"item": item, "column": b.Name}); err != nil {
		return "", false
	}
	return buf.String(), true
}

func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint64:
		return decimal.RequireFromString(strconv.FormatUint(v, 10)), true
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	}
	return decimal.Zero, false
}
