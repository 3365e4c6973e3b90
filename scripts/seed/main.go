// Command seed loads a small demo catalogue into the database so the search
// surface has something to return in development.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/repository"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
	"github.com/osegonte/daad-study-search-sub000/pkg/database"
)

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall seeding timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	universities := repository.NewUniversityRepository(db)
	subjectAreas := repository.NewSubjectAreaRepository(db)
	programmes := repository.NewProgrammeRepository(db)

	tum := &models.University{Name: "Technical University of Munich", City: "Munich", InstitutionType: models.InstitutionPublic, Website: "https://www.tum.de"}
	rwth := &models.University{Name: "RWTH Aachen University", City: "Aachen", InstitutionType: models.InstitutionPublic, Website: "https://www.rwth-aachen.de"}
	cbs := &models.University{Name: "CBS International Business School", City: "Cologne", InstitutionType: models.InstitutionPrivate, Website: "https://www.cbs.de"}
	for _, u := range []*models.University{tum, rwth, cbs} {
		if err := universities.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed university %s: %v", u.Name, err)
		}
	}

	engineering := &models.SubjectArea{Name: "Engineering", Slug: "engineering"}
	computerScience := &models.SubjectArea{Name: "Computer Science", Slug: "computer-science"}
	business := &models.SubjectArea{Name: "Business & Economics", Slug: "business-economics"}
	for _, a := range []*models.SubjectArea{engineering, computerScience, business} {
		if err := subjectAreas.Create(ctx, a); err != nil {
			log.Fatalf("failed to seed subject area %s: %v", a.Name, err)
		}
	}

	demo := []*models.Programme{
		{
			Title:             "Robotics, Cognition, Intelligence",
			DegreeType:        models.DegreeMaster,
			SubjectAreaID:     computerScience.ID,
			UniversityID:      tum.ID,
			StudyMode:         "Full-time",
			Language:          "English",
			AdmissionStatus:   models.AdmissionRestricted,
			ECTSRequirement:   140,
			BeginningSemester: "Winter",
			MOILetter:         models.MOIAccepted,
			MotivationLetter:  models.RequirementYes,
			EntranceTest:      models.RequirementNo,
			Interview:         models.RequirementVaried,
			ModuleHandbook:    models.RequirementYes,
		},
		{
			Title:             "Mechanical Engineering",
			DegreeType:        models.DegreeBachelor,
			SubjectAreaID:     engineering.ID,
			UniversityID:      rwth.ID,
			StudyMode:         "Full-time",
			Language:          "German",
			AdmissionStatus:   models.AdmissionNonRestricted,
			BeginningSemester: "Winter",
			MOILetter:         models.MOINotAccepted,
			MotivationLetter:  models.RequirementNo,
			EntranceTest:      models.RequirementNo,
			Interview:         models.RequirementNo,
			ModuleHandbook:    models.RequirementNo,
		},
		{
			Title:             "International Business",
			DegreeType:        models.DegreeMaster,
			SubjectAreaID:     business.ID,
			UniversityID:      cbs.ID,
			StudyMode:         "Part-time",
			Language:          "English",
			AdmissionStatus:   models.AdmissionNonRestricted,
			ECTSRequirement:   180,
			HasTuitionFee:     true,
			BeginningSemester: "Summer",
			MOILetter:         models.MOIAccepted,
			MotivationLetter:  models.RequirementYes,
			EntranceTest:      models.RequirementVaried,
			Interview:         models.RequirementYes,
			ModuleHandbook:    models.RequirementNo,
		},
	}
	for _, p := range demo {
		if err := programmes.Create(ctx, p); err != nil {
			log.Fatalf("failed to seed programme %s: %v", p.Title, err)
		}
	}

	log.Printf("seeded %d universities, %d subject areas, %d programmes", 3, 3, len(demo))
}
