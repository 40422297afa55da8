// Command renderdemo renders a sample resume with every template, writing one
// preview page per template and optionally a PDF export of each.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"resume-builder/resume/export"
	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

func main() {
	outDir := flag.String("out", "./out", "output directory")
	withPDF := flag.Bool("pdf", false, "also export each template as PDF (needs Chrome)")
	chromePath := flag.String("chrome", os.Getenv("CHROME_PATH"), "path to the Chrome binary")
	scale := flag.Float64("scale", preview.ThumbnailScale, "preview display scale")
	flag.Parse()

	doc := sampleResume()
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fail("create output dir", err)
	}
	if err := writeModel(filepath.Join(*outDir, "sample_resume.json"), doc); err != nil {
		fail("write model", err)
	}

	registry := render.NewRegistry(nil)
	var pipeline *export.Pipeline
	if *withPDF {
		pipeline = export.NewPipeline(export.NewChromeCapturer(*chromePath, time.Minute), export.NewPDFEncoder())
	}

	for _, id := range model.TemplateIDs {
		doc.TemplateID = id
		layout, err := registry.Render(doc)
		if err != nil {
			fail("render "+id, err)
		}
		surface := preview.Present(layout, *scale)

		htmlPath := filepath.Join(*outDir, id+".html")
		if err := writeSurface(htmlPath, surface); err != nil {
			fail("write "+htmlPath, err)
		}
		if err := validateRenderedHTML(htmlPath, id); err != nil {
			fail("validate "+htmlPath, err)
		}
		fmt.Printf("OK: wrote %s\n", htmlPath)

		if pipeline == nil {
			continue
		}
		artifact, err := pipeline.Export(context.Background(), doc, surface)
		if err != nil {
			fail("export "+id, err)
		}
		if err := export.Verify(artifact); err != nil {
			fail("verify "+id, err)
		}
		pdfPath := filepath.Join(*outDir, id+"_"+artifact.FileName)
		if err := os.WriteFile(pdfPath, artifact.Data, 0o644); err != nil {
			fail("write "+pdfPath, err)
		}
		fmt.Printf("OK: wrote %s (%dx%d px)\n", pdfPath, artifact.PageWidth, artifact.PageHeight)
	}
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
	os.Exit(1)
}

func writeModel(path string, doc model.Resume) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func writeSurface(path string, surface *preview.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := surface.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// validateRenderedHTML checks the page parses and carries the template root
// and the sections the sample fills in.
func validateRenderedHTML(path, templateID string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return err
	}

	var (
		foundTemplate bool
		sections      = map[string]bool{}
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				switch a.Key {
				case "data-template":
					foundTemplate = foundTemplate || a.Val == templateID
				case "data-section":
					sections[a.Val] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if !foundTemplate {
		return fmt.Errorf("missing data-template=%q", templateID)
	}
	var missing []string
	for _, want := range []string{"summary", "experience", "education", "skills", "projects"} {
		if !sections[want] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return errors.New("missing sections: " + strings.Join(missing, ", "))
	}
	return nil
}

func sampleResume() model.Resume {
	doc := model.NewEmpty("resume_sample", "demo", model.DefaultTemplateID, time.Now().UTC())
	doc.Title = "Sample Resume"
	doc.PersonalInfo = model.PersonalInfo{
		FirstName: "Jordan",
		LastName:  "Lee",
		JobTitle:  "Senior Backend Engineer",
		Summary:   "Backend engineer with 8+ years of experience building resilient APIs and data services.",
		Contact: model.Contact{
			Email:    "jordan.lee@example.com",
			Phone:    "+1-555-0102",
			Address:  "Austin, TX",
			LinkedIn: "linkedin.com/in/jordanlee",
			GitHub:   "github.com/jordanlee",
		},
	}
	doc.Experience = []model.Experience{
		{
			ID:          "exp_1",
			Company:     "Northwind Systems",
			Position:    "Senior Backend Engineer",
			Location:    "Remote",
			StartDate:   "2021-03",
			EndDate:     model.Present,
			Current:     true,
			Description: "Led the move of billing services to event-driven pipelines.",
		},
		{
			ID:          "exp_2",
			Company:     "Contoso Labs",
			Position:    "Software Engineer",
			Location:    "Austin, TX",
			StartDate:   "2016-06",
			EndDate:     "2021-02",
			Description: "Built ingestion APIs serving 40k requests per second.",
		},
	}
	doc.Education = []model.Education{
		{
			ID:          "edu_1",
			Institution: "University of Texas",
			Degree:      "B.S.",
			Field:       "Computer Science",
			StartDate:   "2012-09",
			EndDate:     "2016-05",
		},
	}
	doc.Skills = []model.Skill{
		{ID: "skill_1", Name: "Go", Level: 5},
		{ID: "skill_2", Name: "PostgreSQL", Level: 4},
		{ID: "skill_3", Name: "Kubernetes", Level: 3},
	}
	doc.Projects = []model.Project{
		{
			ID:           "proj_1",
			Name:         "Ledger Sync",
			Description:  "Open-source reconciliation service for double-entry ledgers.",
			Technologies: "Go, Kafka",
			Link:         "github.com/jordanlee/ledger-sync",
		},
	}
	return doc
}
