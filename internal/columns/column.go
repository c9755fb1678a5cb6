// column.go
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
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"
	"unicode"

	"github.com/localnerve/gutils-admin/internal/forms"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NoSort disables sorting of a column whose field exists on the model
const NoSort = "-"

// Column is the declaration of one displayed and optionally editable attribute.
// Declarations are shared by every request and never mutated, Bind produces the
// per-request state.
type Column struct {
	Kind Displayer

	Field string
	Value func(item any) any

	VerboseName string
	HeaderName  string
	ShortHeader bool
	Style       string
	Safe        bool
	// Default replaces the text of empty cells, whatever the kind.
	Default     string
	Empty       bool
	Trim        int

	Sort string

	Tooltip      string
	TooltipFunc  func(item any) string
	TooltipField string

	Edit       bool
	EditFields []string
	EditForm   forms.Factory

	Attrs map[string]string
	Index int
}

// Env is the view context columns are bound against
type Env struct {
	Meta     Meta
	Printer  *message.Printer
	EditURL  func(item any) string
	Override map[string]func(item any) string

	group, point string
}

// NewEnv creates a bind environment formatting numbers for lang
func NewEnv(meta Meta, lang string) *Env {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	env := &Env{Meta: meta, Printer: message.NewPrinter(tag)}
	env.group, env.point = numberMarks(env.Printer)
	return env
}

// FormatDecimal writes value with exactly places decimals, digits grouped
// and marked the way the env language does.
func (e *Env) FormatDecimal(value decimal.Decimal, places int32) string {
	group, point := e.group, e.point
	if point == "" {
		group, point = numberMarks(e.Printer)
	}
	text := value.StringFixed(places)
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	whole, frac, _ := strings.Cut(text, ".")

	var sb strings.Builder
	sb.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteString(group)
		}
		sb.WriteRune(r)
	}
	if frac != "" {
		sb.WriteString(point)
		sb.WriteString(frac)
	}
	return sb.String()
}

// numberMarks reads the digit group and decimal marks off a formatted sample
func numberMarks(p *message.Printer) (group, point string) {
	group, point = ",", "."
	if p == nil {
		return group, point
	}
	sample := []rune(p.Sprint(number.Decimal(1234567.5, number.Scale(1))))
	last := -1
	for i := len(sample) - 1; i >= 0; i-- {
		if !unicode.IsDigit(sample[i]) {
			last = i
			break
		}
	}
	if last < 0 {
		return group, point
	}
	point, group = string(sample[last]), ""
	for _, r := range sample[:last] {
		if !unicode.IsDigit(r) {
			group = string(r)
			break
		}
	}
	return group, point
}

// Bound is a column bound to a name within one view instance
type Bound struct {
	Column
	Name     string
	Header   string
	Editable bool

	env   *Env
	style string
	attrs map[string]string
}

// Bind resolves the request state of a column declared under name
func Bind(c Column, name string, env *Env) *Bound {
	if env == nil {
		env = NewEnv(nil, "en")
	}
	b := &Bound{Column: c, Name: name, env: env}
	if b.Field == "" {
		b.Field = name
	}

	var (
		meta  FieldMeta
		found bool
	)
	if env.Meta != nil {
		meta, found = env.Meta.Field(name)
	}
	if b.VerboseName == "" && found {
		b.VerboseName = UpperFirst(meta.VerboseName)
	}

	d := defaultsOf(c.Kind)
	switch {
	case b.Sort == NoSort:
		b.Sort = ""
	case b.Sort == "" && found && meta.DBName != "" && !d.noSort:
		b.Sort = meta.DBName
	}

	b.style = b.Style
	if b.style == "" {
		b.style = d.style
	}
	if b.style == "" {
		b.style = "str"
	}

	b.Header = b.HeaderName
	if b.Header == "" {
		b.Header = b.VerboseName
	}
	if (b.ShortHeader || d.shortHeader) && b.Header != "" {
		b.Header = string([]rune(b.Header)[:1])
	}

	b.attrs = make(map[string]string, len(c.Attrs)+1)
	for k, v := range c.Attrs {
		b.attrs[k] = v
	}
	b.Editable = c.Edit || c.EditForm != nil || len(c.EditFields) > 0
	if b.Editable {
		b.style += " col-editable"
		b.attrs["data-column"] = name
	}
	return b
}

// StyleClass returns the css classes of the column cells
func (b *Bound) StyleClass() string {
	return b.style
}

// CellAttrs returns the html attributes of the column cells
func (b *Bound) CellAttrs() map[string]string {
	return b.attrs
}

// Sortable reports whether the column declares a sort key
func (b *Bound) Sortable() bool {
	return b.Sort != ""
}

// FieldNames returns the model fields an inline edit of this column changes
func (b *Bound) FieldNames() []string {
	if len(b.EditFields) > 0 {
		return b.EditFields
	}
	return []string{b.Field}
}

// GetValue resolves the raw cell value
func (b *Bound) GetValue(item any) any {
	if b.Value != nil {
		return b.Value(item)
	}
	v, _ := Resolve(item, b.Field)
	return v
}

// TooltipValue resolves the tooltip of a cell, if any
func (b *Bound) TooltipValue(item any) string {
	if b.TooltipFunc != nil {
		return b.TooltipFunc(item)
	}
	if b.Tooltip != "" {
		return b.Tooltip
	}
	if b.TooltipField == "" {
		return ""
	}
	v, _ := Resolve(item, b.TooltipField)
	return Stringify(v)
}

// Render returns the escaped or trusted html of one cell
func (b *Bound) Render(item any) template.HTML {
	var (
		text string
		safe bool
	)
	if override, ok := b.env.Override[b.Name]; ok {
		text, safe = override(item), b.Safe
	} else if b.Kind != nil {
		text, safe = b.Kind.Display(b, item)
	} else {
		text, safe = b.display(item)
	}
	if text == "" {
		return template.HTML(html.EscapeString(b.Default))
	}
	if safe || b.Safe {
		return template.HTML(text)
	}
	return template.HTML(html.EscapeString(text))
}

func (b *Bound) display(item any) (string, bool) {
	value := b.GetValue(item)
	if b.Empty && isFalsy(value) {
		return "", false
	}
	if value == nil {
		return "", false
	}
	text := Stringify(value)
	if tooltip := b.TooltipValue(item); tooltip != "" {
		plain := StripTags(text)
		if b.Trim > 0 {
			plain = Truncate(plain, b.Trim)
		}
		return fmt.Sprintf(`<span title="%s">%s</span>`, html.EscapeString(tooltip), html.EscapeString(plain)), true
	}
	safe := false
	if b.Trim > 0 && len([]rune(text)) > b.Trim {
		plain := StripTags(text)
		text = fmt.Sprintf(`<span title="%s">%s <i class="fa fa-angle-double-right red"></i></span>`,
			html.EscapeString(plain), html.EscapeString(Truncate(plain, b.Trim)))
		safe = true
	}
	return text, safe
}

// Stringify formats a resolved value as display text
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case time.Time:
		return formatTime(v, "")
	case *time.Time:
		if v == nil {
			return ""
		}
		return formatTime(*v, "")
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}
	return fmt.Sprint(value)
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout != "" {
		return t.Format(layout)
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case uint64:
		return v == 0
	case float64:
		return v == 0
	case time.Time:
		return v.IsZero()
	case Lister:
		return len(v.All()) == 0
	}
	return false
}

// Attrs renders html attributes in a stable order
func Attrs(attrs map[string]string) template.HTMLAttr {
	if len(attrs) == 0 {
		return ""
	}
	keys := sortedKeys(attrs)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf(`%s="%s"`, k, html.EscapeString(attrs[k])))
	}
	return template.HTMLAttr(strings.Join(parts, " "))
}
