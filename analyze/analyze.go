// Package analyze inspects a document for the formatting problems the
// formatter fixes: English punctuation inside Chinese text, mixed numbering
// styles, missing first-line indents, inconsistent line spacing and font
// sprawl. All scans are read-only; paragraph numbers in the report are
// 1-based body positions.
package analyze

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/officekit/gongwen/docx"
	"github.com/officekit/gongwen/internal/cjk"
)

// Finding is one detected problem. Paragraphs lists where it occurs; Detail
// carries extra context such as the styles being mixed.
type Finding struct {
	Type       string `json:"type"`
	Label      string `json:"label"`
	Paragraphs []int  `json:"paragraphs,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Report groups the findings of one scan by concern.
type Report struct {
	Punctuation []Finding `json:"punctuation,omitempty"`
	Numbering   []Finding `json:"numbering,omitempty"`
	Layout      []Finding `json:"layout,omitempty"`
	Fonts       []Finding `json:"fonts,omitempty"`
}

// Document scans the body paragraphs of d and reports what it finds.
func Document(d *docx.Document) *Report {
	paras := d.Paragraphs()
	return &Report{
		Punctuation: scanPunctuation(paras),
		Numbering:   scanNumbering(paras),
		Layout:      scanLayout(paras),
		Fonts:       scanFonts(paras),
	}
}

// Total returns the number of distinct findings across all concerns.
func (r *Report) Total() int {
	return len(r.Punctuation) + len(r.Numbering) + len(r.Layout) + len(r.Fonts)
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return sonic.MarshalIndent(r, "", "  ")
}

// Text renders the report for the terminal, grouped by concern, with
// paragraph numbers and fix suggestions.
func (r *Report) Text() string {
	if r.Total() == 0 {
		return "未发现明显问题。"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "共发现 %d 类问题。\n", r.Total())
	section := func(title string, findings []Finding) {
		if len(findings) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n【%s】\n", title)
		for _, f := range findings {
			b.WriteString("- ")
			b.WriteString(f.Label)
			if f.Detail != "" {
				fmt.Fprintf(&b, "（%s）", f.Detail)
			}
			if len(f.Paragraphs) > 0 {
				b.WriteString("：")
				b.WriteString(paragraphList(f.Paragraphs))
			}
			b.WriteByte('\n')
		}
	}
	section("标点符号", r.Punctuation)
	section("编号格式", r.Numbering)
	section("段落格式", r.Layout)
	section("字体", r.Fonts)

	if len(r.Punctuation) > 0 {
		b.WriteString("\n提示：gongwen punct 可自动修复标点问题。\n")
	}
	if len(r.Numbering) > 0 || len(r.Layout) > 0 || len(r.Fonts) > 0 {
		b.WriteString("提示：gongwen <输入> <输出> 可重新排版全文。\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// paragraphList renders 第N段 listings, abbreviating past five entries.
func paragraphList(nums []int) string {
	show := nums
	if len(nums) > 5 {
		show = nums[:3]
	}
	parts := make([]string, len(show))
	for i, n := range show {
		parts[i] = strconv.Itoa(n)
	}
	s := "第" + strings.Join(parts, "、") + "段"
	if len(nums) > 5 {
		s += fmt.Sprintf("等（共%d处）", len(nums))
	}
	return s
}

// Punctuation issue kinds, in report order.
const (
	puncParen = iota
	puncQuote
	puncColon
	puncComma
	puncSemicolon
	puncQuestion
	puncExclam
	puncEllipsisRun
	puncDashRun
	puncHanPeriod
	puncKinds
)

var puncLabels = [puncKinds]struct{ key, label string }{
	{"english_paren", "英文括号"},
	{"english_quote", "英文引号"},
	{"english_colon", "英文冒号"},
	{"english_comma", "英文逗号"},
	{"english_semicolon", "英文分号"},
	{"english_question", "英文问号"},
	{"english_exclam", "英文叹号"},
	{"ellipsis_run", "连续句点（疑似省略号）"},
	{"dash_run", "连续连字符（疑似破折号）"},
	{"han_period", "中文后使用英文句号"},
}

func scanPunctuation(paras []*docx.Paragraph) []Finding {
	var hits [puncKinds][]int
	for n, p := range paras {
		text := strings.TrimSpace(p.Text())
		if text == "" || !cjk.HasHan(text) {
			continue
		}
		seen := paragraphPunctuation(text)
		for kind := range hits {
			if seen[kind] {
				hits[kind] = append(hits[kind], n+1)
			}
		}
	}
	var out []Finding
	for kind, hit := range hits {
		if len(hit) == 0 {
			continue
		}
		out = append(out, Finding{
			Type:       puncLabels[kind].key,
			Label:      puncLabels[kind].label,
			Paragraphs: hit,
		})
	}
	return out
}

// paragraphPunctuation reports which punctuation issues occur in one
// paragraph. Colons after or before digits (ratios, times) and colons opening
// a path or URL are fine; commas between digits are thousands separators.
func paragraphPunctuation(text string) [puncKinds]bool {
	var seen [puncKinds]bool
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '(', ')':
			seen[puncParen] = true
		case '"', '\'':
			seen[puncQuote] = true
		case ':':
			if !colonContext(runes, i) {
				seen[puncColon] = true
			}
		case ',':
			if !digitNeighbors(runes, i) {
				seen[puncComma] = true
			}
		case ';':
			seen[puncSemicolon] = true
		case '?':
			seen[puncQuestion] = true
		case '!':
			seen[puncExclam] = true
		case '.':
			j := i
			for j+1 < len(runes) && runes[j+1] == '.' {
				j++
			}
			if j > i {
				seen[puncEllipsisRun] = true
				i = j
			} else if i > 0 && unicode.Is(unicode.Han, runes[i-1]) {
				seen[puncHanPeriod] = true
			}
		case '-':
			j := i
			for j+1 < len(runes) && runes[j+1] == '-' {
				j++
			}
			if j > i {
				seen[puncDashRun] = true
				i = j
			}
		}
	}
	return seen
}

func colonContext(runes []rune, i int) bool {
	if i > 0 && unicode.IsDigit(runes[i-1]) {
		return true
	}
	if i+1 < len(runes) {
		switch next := runes[i+1]; {
		case unicode.IsDigit(next), next == '/', next == '\\':
			return true
		}
	}
	return false
}

func digitNeighbors(runes []rune, i int) bool {
	return i > 0 && i+1 < len(runes) &&
		unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1])
}

// numberingStyles are probed in order; the first match claims the paragraph.
var numberingStyles = []struct {
	key    string
	label  string
	arabic bool
	re     *regexp.Regexp
}{
	{"chinese_1", "一、", false, regexp.MustCompile(`^[一二三四五六七八九十]+、`)},
	{"chinese_2", "（一）", false, regexp.MustCompile(`^（[一二三四五六七八九十]+）`)},
	{"arabic_dot", "1.", true, regexp.MustCompile(`^\d+\.`)},
	{"arabic_comma", "1、", true, regexp.MustCompile(`^\d+、`)},
	{"arabic_paren", "1）", true, regexp.MustCompile(`^\d+）`)},
	{"arabic_paren_full", "（1）", true, regexp.MustCompile(`^（\d+）`)},
}

// scanNumbering flags documents that mix more than one arabic numbering
// style. The Chinese ordinal styles coexist with anything by convention.
func scanNumbering(paras []*docx.Paragraph) []Finding {
	found := make([][]int, len(numberingStyles))
	for n, p := range paras {
		text := strings.TrimSpace(p.Text())
		for i, st := range numberingStyles {
			if st.re.MatchString(text) {
				found[i] = append(found[i], n+1)
				break
			}
		}
	}

	var labels []string
	var nums []int
	for i, st := range numberingStyles {
		if st.arabic && len(found[i]) > 0 {
			labels = append(labels, st.label)
			nums = append(nums, found[i]...)
		}
	}
	if len(labels) < 2 {
		return nil
	}
	return []Finding{{
		Type:       "mixed_arabic_numbering",
		Label:      "混用阿拉伯数字编号样式",
		Paragraphs: nums,
		Detail:     strings.Join(labels, " / "),
	}}
}

// noIndentPrefixes exempt a paragraph from the first-line indent check; these
// lines conventionally start at the margin.
var noIndentPrefixes = []string{"附件", "联系人", "抄送", "主送"}

func exemptFromIndent(text string) bool {
	for _, p := range noIndentPrefixes {
		if strings.HasPrefix(text, p+"：") || strings.HasPrefix(text, p+":") {
			return true
		}
	}
	return false
}

func scanLayout(paras []*docx.Paragraph) []Finding {
	var noIndent []int
	spacings := make(map[string]bool)
	for n, p := range paras {
		if key := p.LineSpacingKey(); key != "" {
			spacings[key] = true
		}
		text := strings.TrimSpace(p.Text())
		if utf8.RuneCountInString(text) < 10 {
			continue
		}
		if p.Alignment() == "center" || exemptFromIndent(text) {
			continue
		}
		if tw, ch := p.FirstLineIndent(); tw == 0 && ch == 0 {
			noIndent = append(noIndent, n+1)
		}
	}

	var out []Finding
	if len(noIndent) > 0 {
		out = append(out, Finding{
			Type:       "missing_first_line_indent",
			Label:      "正文段落缺少首行缩进",
			Paragraphs: noIndent,
		})
	}
	if len(spacings) > 1 {
		out = append(out, Finding{
			Type:   "inconsistent_line_spacing",
			Label:  "行距不统一",
			Detail: fmt.Sprintf("共%d种行距", len(spacings)),
		})
	}
	return out
}

// fontVarietyLimit is how many distinct fonts or sizes a document may use
// before the scan flags it.
const fontVarietyLimit = 4

// scanFonts counts the distinct font names (both the Latin and East Asian
// faces) and font sizes in use.
func scanFonts(paras []*docx.Paragraph) []Finding {
	names := make(map[string]bool)
	var order []string
	sizes := make(map[int]bool)
	for _, p := range paras {
		for _, r := range p.Runs() {
			for _, f := range []string{r.FontASCII(), r.FontEastAsia()} {
				if f != "" && !names[f] {
					names[f] = true
					order = append(order, f)
				}
			}
			if hp, ok := r.SizeHalfPoints(); ok {
				sizes[hp] = true
			}
		}
	}

	var out []Finding
	if len(names) > fontVarietyLimit {
		out = append(out, Finding{
			Type:   "too_many_fonts",
			Label:  "字体种类过多",
			Detail: fmt.Sprintf("共%d种：%s", len(names), strings.Join(order, "、")),
		})
	}
	if len(sizes) > fontVarietyLimit {
		out = append(out, Finding{
			Type:   "too_many_sizes",
			Label:  "字号种类过多",
			Detail: fmt.Sprintf("共%d种字号", len(sizes)),
		})
	}
	return out
}
