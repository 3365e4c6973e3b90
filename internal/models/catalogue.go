package models

// ProgrammeInput is the admin create/update payload for a programme.
type ProgrammeInput struct {
	Title             string `json:"title" validate:"required,min=3"`
	DegreeType        string `json:"degree_type" validate:"required,oneof=Preparatory Bachelor Master"`
	SubjectAreaID     string `json:"subject_area_id" validate:"required,uuid4"`
	UniversityID      string `json:"university_id" validate:"required,uuid4"`
	StudyMode         string `json:"study_mode" validate:"required,oneof=FullTime PartTime Distance"`
	Language          string `json:"language" validate:"required,oneof=German English German-English"`
	AdmissionStatus   string `json:"admission_status" validate:"required,oneof=restricted non-restricted"`
	ECTSRequirement   int    `json:"ects_requirement" validate:"gte=0"`
	HasTuitionFee     bool   `json:"has_tuition_fee"`
	BeginningSemester string `json:"beginning_semester" validate:"required,oneof=WinterSemester SummerSemester Both"`
	MOILetter         string `json:"moi_letter" validate:"required,oneof=Accepted NotAccepted"`
	MotivationLetter  string `json:"motivation_letter" validate:"required,oneof=Yes No Varied"`
	EntranceTest      string `json:"entrance_test" validate:"required,oneof=Yes No Varied"`
	Interview         string `json:"interview" validate:"required,oneof=Yes No Varied"`
	ModuleHandbook    string `json:"module_handbook" validate:"required,oneof=Yes No Varied"`
	Description       string `json:"description"`
}

// Apply copies the input onto a programme record.
func (in ProgrammeInput) Apply(p *Programme) {
	p.Title = in.Title
	p.DegreeType = DegreeType(in.DegreeType)
	p.SubjectAreaID = in.SubjectAreaID
	p.UniversityID = in.UniversityID
	p.StudyMode = in.StudyMode
	p.Language = in.Language
	p.AdmissionStatus = AdmissionStatus(in.AdmissionStatus)
	p.ECTSRequirement = in.ECTSRequirement
	p.HasTuitionFee = in.HasTuitionFee
	p.BeginningSemester = in.BeginningSemester
	p.MOILetter = MOIStatus(in.MOILetter)
	p.MotivationLetter = RequirementStatus(in.MotivationLetter)
	p.EntranceTest = RequirementStatus(in.EntranceTest)
	p.Interview = RequirementStatus(in.Interview)
	p.ModuleHandbook = RequirementStatus(in.ModuleHandbook)
	p.Description = in.Description
}

// UniversityInput is the admin create/update payload for a university.
type UniversityInput struct {
	Name            string `json:"name" validate:"required,min=3"`
	City            string `json:"city" validate:"required"`
	InstitutionType string `json:"institution_type" validate:"required,oneof=Public Private"`
	Website         string `json:"website" validate:"omitempty,url"`
	Description     string `json:"description"`
}

// SubjectAreaInput is the admin create/update payload for a subject area.
type SubjectAreaInput struct {
	Name string `json:"name" validate:"required,min=2"`
	Slug string `json:"slug" validate:"required,min=2,lowercase"`
}

// NewsInput is the admin create/update payload for a news item.
type NewsInput struct {
	Title     string `json:"title" validate:"required,min=3"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}

// InquiryInput is the public contact form payload.
type InquiryInput struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=3"`
	Message string `json:"message" validate:"required,min=10"`
}
