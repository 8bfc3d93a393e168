// Package grade holds the fixed academic level taxonomy used to scope
// catalog content to students.
package grade

// Level is one academic level a student can be enrolled in.
type Level struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var levels = []Level{
	{Code: "prep_1", Label: "الصف الأول الإعدادي"},
	{Code: "prep_2", Label: "الصف الثاني الإعدادي"},
	{Code: "prep_3", Label: "الصف الثالث الإعدادي"},
	{Code: "sec_1", Label: "الصف الأول الثانوي"},
	{Code: "sec_2", Label: "الصف الثاني الثانوي"},
	{Code: "sec_3", Label: "الصف الثالث الثانوي"},
	{Code: "uni_yemen", Label: "الجامعة اليمنية"},
	{Code: "uni_riyadah", Label: "جامعة الرياده البريطانيه"},
	{Code: "postgraduate", Label: "طلاب الدراسات العليا"},
	{Code: "culture_ministry", Label: "محاضرات وزارة الثقافة"},
}

var byCode = func() map[string]string {
	m := make(map[string]string, len(levels))
	for _, l := range levels {
		m[l.Code] = l.Label
	}
	return m
}()

// All returns the levels in display order. The slice is a copy.
func All() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// Valid reports whether code is a known level.
func Valid(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Label returns the Arabic label of code, or code itself when unknown.
func Label(code string) string {
	if l, ok := byCode[code]; ok {
		return l
	}
	return code
}
