package models

import "time"

// DegreeType enumerates the offered degree levels.
type DegreeType string

const (
	DegreePreparatory DegreeType = "Preparatory"
	DegreeBachelor    DegreeType = "Bachelor"
	DegreeMaster      DegreeType = "Master"
)

// AdmissionStatus distinguishes restricted from non-restricted admission.
type AdmissionStatus string

const (
	AdmissionRestricted    AdmissionStatus = "restricted"
	AdmissionNonRestricted AdmissionStatus = "non-restricted"
)

// RequirementStatus is the tri-state used by the admission-requirement
// attributes (motivation letter, entrance test, interview, module handbook).
type RequirementStatus string

const (
	RequirementYes    RequirementStatus = "Yes"
	RequirementNo     RequirementStatus = "No"
	RequirementVaried RequirementStatus = "Varied"
)

// MOIStatus records whether a Medium of Instruction letter is accepted.
type MOIStatus string

const (
	MOIAccepted    MOIStatus = "Accepted"
	MOINotAccepted MOIStatus = "NotAccepted"
)

// Programme represents a study programme offered by a university.
type Programme struct {
	ID                string            `db:"id" json:"id"`
	Title             string            `db:"title" json:"title"`
	DegreeType        DegreeType        `db:"degree_type" json:"degree_type"`
	SubjectAreaID     string            `db:"subject_area_id" json:"subject_area_id"`
	UniversityID      string            `db:"university_id" json:"university_id"`
	StudyMode         string            `db:"study_mode" json:"study_mode"`
	Language          string            `db:"language" json:"language"`
	AdmissionStatus   AdmissionStatus   `db:"admission_status" json:"admission_status"`
	ECTSRequirement   int               `db:"ects_requirement" json:"ects_requirement"`
	HasTuitionFee     bool              `db:"has_tuition_fee" json:"has_tuition_fee"`
	BeginningSemester string            `db:"beginning_semester" json:"beginning_semester"`
	MOILetter         MOIStatus         `db:"moi_letter" json:"moi_letter"`
	MotivationLetter  RequirementStatus `db:"motivation_letter" json:"motivation_letter"`
	EntranceTest      RequirementStatus `db:"entrance_test" json:"entrance_test"`
	Interview         RequirementStatus `db:"interview" json:"interview"`
	ModuleHandbook    RequirementStatus `db:"module_handbook" json:"module_handbook"`
	Description       string            `db:"description" json:"description,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// ProgrammeDetail joins the programme with its university and subject area
// for listing and detail responses.
type ProgrammeDetail struct {
	Programme
	UniversityName  string `db:"university_name" json:"university_name"`
	UniversityCity  string `db:"university_city" json:"university_city"`
	InstitutionType string `db:"institution_type" json:"institution_type"`
	SubjectAreaName string `db:"subject_area_name" json:"subject_area_name"`
	SubjectAreaSlug string `db:"subject_area_slug" json:"subject_area_slug"`
}
