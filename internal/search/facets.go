package search

// Key identifies a filterable programme attribute. The set of keys is a
// closed enumeration; selections reject anything outside it.
type Key string

const (
	KeyCourseType        Key = "courseType"
	KeyLanguage          Key = "language"
	KeySubjectArea       Key = "subjectArea"
	KeyBeginningSemester Key = "beginningSemester"
	KeyStudyMode         Key = "studyMode"
	KeyAdmissionType     Key = "admissionType"
	KeyECTSRequired      Key = "ectsRequired"
	KeyInstitutionType   Key = "institutionType"
	KeyTuitionFee        Key = "tuitionFee"

	// Premium-only facets. These never reach the query builder unless the
	// caller is entitled.
	KeyMOILetter        Key = "moiLetter"
	KeyMotivationLetter Key = "motivationLetter"
	KeyTestRequired     Key = "testRequired"
	KeyInterview        Key = "interview"
	KeyModuleHandbook   Key = "moduleHandbook"
)

// Mode distinguishes single-value facets from multi-value ones. Each facet is
// declared with exactly one mode; both the sidebar-style and pill-style query
// parameters parse into the same shape.
type Mode int

const (
	SingleValue Mode = iota
	MultiValue
)

// Facet declares one filterable attribute: its selection mode, whether it is
// premium-gated, the SQL column it binds to, and the allowed values (nil
// means free-form).
type Facet struct {
	Key     Key
	Mode    Mode
	Premium bool
	Column  string
	Values  []string
}

// registry lists every facet once, in display order.
var registry = []Facet{
	{Key: KeyCourseType, Mode: MultiValue, Column: "p.degree_type", Values: []string{"Preparatory", "Bachelor", "Master"}},
	{Key: KeyLanguage, Mode: MultiValue, Column: "p.language", Values: []string{"German", "English", "German-English"}},
	{Key: KeySubjectArea, Mode: MultiValue, Column: "sa.slug"},
	{Key: KeyBeginningSemester, Mode: MultiValue, Column: "p.beginning_semester", Values: []string{"WinterSemester", "SummerSemester", "Both"}},
	{Key: KeyStudyMode, Mode: MultiValue, Column: "p.study_mode", Values: []string{"FullTime", "PartTime", "Distance"}},
	{Key: KeyAdmissionType, Mode: SingleValue, Column: "p.admission_status", Values: []string{"restricted", "non-restricted"}},
	{Key: KeyECTSRequired, Mode: SingleValue, Column: "p.ects_requirement"},
	{Key: KeyInstitutionType, Mode: SingleValue, Column: "u.institution_type", Values: []string{"Public", "Private"}},
	{Key: KeyTuitionFee, Mode: SingleValue, Column: "p.has_tuition_fee", Values: []string{"yes", "no"}},

	{Key: KeyMOILetter, Mode: SingleValue, Premium: true, Column: "p.moi_letter", Values: []string{"Accepted", "NotAccepted"}},
	{Key: KeyMotivationLetter, Mode: SingleValue, Premium: true, Column: "p.motivation_letter", Values: []string{"Yes", "No", "Varied"}},
	{Key: KeyTestRequired, Mode: SingleValue, Premium: true, Column: "p.entrance_test", Values: []string{"Yes", "No", "Varied"}},
	{Key: KeyInterview, Mode: SingleValue, Premium: true, Column: "p.interview", Values: []string{"Yes", "No", "Varied"}},
	{Key: KeyModuleHandbook, Mode: SingleValue, Premium: true, Column: "p.module_handbook", Values: []string{"Yes", "No", "Varied"}},
}

var registryByKey = func() map[Key]Facet {
	m := make(map[Key]Facet, len(registry))
	for _, f := range registry {
		m[f.Key] = f
	}
	return m
}()

// Facets returns every declared facet in display order.
func Facets() []Facet {
	out := make([]Facet, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the facet declaration for a key.
func Lookup(key Key) (Facet, bool) {
	f, ok := registryByKey[key]
	return f, ok
}

// PremiumKeys returns the keys of premium-gated facets.
func PremiumKeys() []Key {
	var keys []Key
	for _, f := range registry {
		if f.Premium {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

func (f Facet) allows(value string) bool {
	if len(f.Values) == 0 {
		return value != ""
	}
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}
