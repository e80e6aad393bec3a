package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Context carries everything a classification rule may consult. AllTexts is
// the ordered snapshot of non-empty paragraph texts captured before any
// mutation; Index and Total range over the full body paragraph sequence,
// empty paragraphs included. Alignment is the paragraph's original w:jc
// value ("" when unset).
type Context struct {
	Text      string
	Index     int
	Total     int
	Alignment string
	AllTexts  []string
}

var (
	heading1Re     = regexp.MustCompile(`^[一二三四五六七八九十]+、`)
	heading2FullRe = regexp.MustCompile(`^（[一二三四五六七八九十]+）`)
	heading2HalfRe = regexp.MustCompile(`^\([一二三四五六七八九十]+\)`)
	heading3Re     = regexp.MustCompile(`^\d+\.\s*\S`)
	heading4FullRe = regexp.MustCompile(`^（\d+）`)
	heading4HalfRe = regexp.MustCompile(`^\(\d+\)`)

	recipientRe  = regexp.MustCompile(`^\p{Han}+[：:]$`)
	attachmentRe = regexp.MustCompile(`^附件\d*([：:].*)?$`)

	closingRes = []*regexp.Regexp{
		regexp.MustCompile(`^特此(通知|报告|函告|公告|通报|说明)[。！]?$`),
		regexp.MustCompile(`^此致$`),
		regexp.MustCompile(`^敬礼[。！]?$`),
		regexp.MustCompile(`^以上请(审阅|批示|审批)[。]?$`),
		regexp.MustCompile(`^妥否，请批示[。]?$`),
		regexp.MustCompile(`^请予批准[。]?$`),
	}

	dateRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}年\d{1,2}月\d{1,2}日$`),
		regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`),
		regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`),
		regexp.MustCompile(`^\d{4}\.\d{1,2}\.\d{1,2}$`),
		regexp.MustCompile(`^[〇○零一二三四五六七八九]{4}年[正一二三四五六七八九十]{1,2}月[一二三四五六七八九十]{1,3}日$`),
	}

	titleExactRe  = regexp.MustCompile(`^关于.{2,30}的(通知|报告|请示|函|意见|决定|公告|通报|批复|汇报|方案|总结)$`)
	titleSuffixRe = regexp.MustCompile(`^.{2,20}(通知|报告|请示|函|意见|决定|公告|通报|批复|汇报材料|工作汇报|工作方案|工作总结)$`)
)

// signatureSuffixes are organizational-entity endings that mark a paragraph
// near the end of the document as the issuing body's signature line.
var signatureSuffixes = []string{
	"有限公司", "公司", "集团",
	"委员会", "办公室", "管委会", "党委", "党组",
	"局", "厅", "部", "处", "科",
	"中心", "学校", "学院", "大学", "医院",
	"研究院", "研究所", "协会", "学会", "基金会", "银行",
	"支队", "大队", "总队",
	"街道", "乡", "镇", "政府",
}

// rule is one row of the classification decision table.
type rule struct {
	name  string
	match func(c Context) bool
	role  Role
}

// rules is evaluated top to bottom; the first match wins, which is the whole
// tie-break policy. Reordering rows changes behavior.
var rules = []rule{
	{"chinese ordinal 、", func(c Context) bool {
		return heading1Re.MatchString(c.Text)
	}, RoleHeading1},

	{"parenthesized chinese ordinal", func(c Context) bool {
		return heading2FullRe.MatchString(c.Text) || heading2HalfRe.MatchString(c.Text)
	}, RoleHeading2},

	{"N. prefix, short", func(c Context) bool {
		return heading3Re.MatchString(c.Text) && runeLen(c.Text) < 60
	}, RoleHeading3},

	{"parenthesized numeral, short", func(c Context) bool {
		return (heading4FullRe.MatchString(c.Text) || heading4HalfRe.MatchString(c.Text)) &&
			runeLen(c.Text) < 60
	}, RoleHeading4},

	{"cjk token + colon", func(c Context) bool {
		return recipientRe.MatchString(c.Text) && runeLen(c.Text) < 20
	}, RoleRecipient},

	{"attachment prefix", func(c Context) bool {
		return attachmentRe.MatchString(c.Text)
	}, RoleAttachment},

	{"closing phrase", func(c Context) bool {
		return matchAny(closingRes, c.Text)
	}, RoleClosing},

	{"date literal", func(c Context) bool {
		return matchAny(dateRes, c.Text)
	}, RoleDate},

	{"trailing signature", isSignature, RoleSignature},

	{"leading title", isTitle, RoleTitle},
}

// Classify assigns exactly one role to a paragraph. Deterministic and
// side-effect-free: equal inputs always yield equal roles.
func Classify(text string, index, total int, alignment string, allTexts []string) Role {
	c := Context{
		Text:      strings.TrimSpace(text),
		Index:     index,
		Total:     total,
		Alignment: alignment,
		AllTexts:  allTexts,
	}
	if c.Text == "" {
		return RoleEmpty
	}
	for _, r := range rules {
		if r.match(c) {
			return r.role
		}
	}
	return RoleBody
}

// isSignature implements the trailing-signature heuristic: within the last 10
// snapshot entries and under 30 runes, a paragraph is a signature when it ends
// with an organizational suffix or when a date line follows within 3 entries.
// The paragraph is located in the snapshot by value equality, first occurrence;
// with duplicate texts this can pick the wrong position (kept as-is, see the
// package tests).
func isSignature(c Context) bool {
	pos := -1
	for i, t := range c.AllTexts {
		if t == c.Text {
			pos = i
			break
		}
	}
	if pos < 0 || pos < len(c.AllTexts)-10 {
		return false
	}
	if runeLen(c.Text) >= 30 {
		return false
	}
	for _, suffix := range signatureSuffixes {
		if strings.HasSuffix(c.Text, suffix) {
			return true
		}
	}
	for i := pos + 1; i < len(c.AllTexts) && i <= pos+3; i++ {
		if matchAny(dateRes, c.AllTexts[i]) {
			return true
		}
	}
	return false
}

// isTitle implements the leading-title heuristic for the first five
// paragraphs.
func isTitle(c Context) bool {
	if c.Index >= 5 {
		return false
	}
	if titleExactRe.MatchString(c.Text) || titleSuffixRe.MatchString(c.Text) {
		return true
	}
	n := runeLen(c.Text)
	if n > 15 && n < 80 && !hasSentenceFinal(c.Text) && !startsWithMarker(c.Text) {
		return true
	}
	if c.Alignment == "center" && n < 60 {
		return true
	}
	return false
}

func hasSentenceFinal(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '。', '？', '！', '?', '!', '.':
		return true
	}
	return false
}

// startsWithMarker reports whether the text opens with an ordinal, number or
// parenthesis marker, which disqualifies it as a title.
func startsWithMarker(s string) bool {
	if heading1Re.MatchString(s) || heading2FullRe.MatchString(s) || heading2HalfRe.MatchString(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r) || r == '（' || r == '('
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
