// daberli-post composes and publishes a classified ad from the command
// line, driving the same wizard pipeline the web composer uses: category
// and form fields from flags, photos through the intake/codec pipeline,
// validation per step, then submission to the Daberli API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/daberli/ad-composer/internal/config"
	"github.com/daberli/ad-composer/internal/draft"
	"github.com/daberli/ad-composer/internal/imaging"
	"github.com/daberli/ad-composer/internal/intake"
	"github.com/daberli/ad-composer/internal/logging"
	"github.com/daberli/ad-composer/internal/storage"
	"github.com/daberli/ad-composer/internal/submit"
	"github.com/daberli/ad-composer/internal/wizard"
)

// CLI flags
var (
	categoryFlag    string
	titleFlag       string
	priceFlag       string
	priceUnitFlag   string
	wilayaFlag      string
	descriptionFlag string
	imageFlags      []string
	detailFlags     []string
	dryRunFlag      bool
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "daberli-post",
	Short: "Post a classified ad to Daberli",
	Long: `daberli-post composes a new listing through the same four-step wizard the
web client uses: pick a category, fill in the basics, add category-specific
details, attach photos. Photos are downsampled and re-encoded locally before
anything leaves the machine; the same validation gates apply.

Category-specific detail fields are passed as repeated --detail key=value
flags; the accepted keys match the web form (brand, model, year, mileage,
fuelType, transmission, color, condition for auto; type, area, bedrooms,
bathrooms, floor, furnished for real-estate; company, jobType, experience,
remote, sector for jobs; specialty, rateType, yearsExp, availability for
services).

Examples:
  daberli-post --category auto --title "Clio 4 Limited 2019" --wilaya Oran \
    --price 1850000 --detail brand=Renault --detail year=2019 \
    --image front.jpg --image interior.jpg
  daberli-post --category services --title "Plombier à domicile" --wilaya Alger \
    --detail specialty=Plomberie --description "Intervention rapide 7j/7" \
    --image work.png --dry-run`,
	RunE: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&categoryFlag, "category", "c", "auto", "Listing category: auto, real-estate, jobs, or services")
	rootCmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Ad title")
	rootCmd.Flags().StringVarP(&priceFlag, "price", "p", "", "Price (free text, parsed on submit)")
	rootCmd.Flags().StringVar(&priceUnitFlag, "price-unit", "DZD", "Pricing type (DZD, Negotiable, DZD/month, DZD/day, DZD/hour)")
	rootCmd.Flags().StringVarP(&wilayaFlag, "wilaya", "w", "", "Wilaya the listing is located in")
	rootCmd.Flags().StringVar(&descriptionFlag, "description", "", "Free-text description (required for jobs and services)")
	rootCmd.Flags().StringArrayVarP(&imageFlags, "image", "i", nil, "Image file to attach (repeatable, max 6)")
	rootCmd.Flags().StringArrayVarP(&detailFlags, "detail", "D", nil, "Category detail as key=value (repeatable)")
	rootCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Assemble and print the request without submitting")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(cfg.LogLevel)

	store, err := storage.NewFileStore(cfg.DraftPath)
	if err != nil {
		return fmt.Errorf("open draft store: %w", err)
	}

	// The CLI has no idle loop to wait out debounce or animation timers, so
	// drafts write synchronously and the close reset is immediate.
	saver := draft.NewSaver(store, draft.Key, -1)
	in := intake.New(intake.Config{
		MaxImages:    cfg.MaxImages,
		MaxFileBytes: cfg.MaxFileBytes(),
		Encode:       imaging.Options{MaxWidth: cfg.MaxWidth, Quality: cfg.JPEGQuality},
	})
	w := wizard.New(wizard.Config{Intake: in, Saver: saver, CloseDelay: -1})

	logging.NewStartupLogger("daberli-post").
		Feature("dry_run", dryRunFlag).
		Config("api_base_url", cfg.APIBaseURL).
		Config("draft_path", cfg.DraftPath).
		Config("max_images", fmt.Sprint(cfg.MaxImages)).
		InitDuration(time.Since(start)).
		Log()

	w.Open()
	if err := fillWizard(w); err != nil {
		return err
	}
	if err := attachImages(in); err != nil {
		return err
	}
	if err := advanceToFinalStep(w); err != nil {
		return err
	}

	if dryRunFlag {
		req, err := submit.Assemble(w.Snapshot())
		if err != nil {
			return fmt.Errorf("assemble: %w", err)
		}
		return printRequest(req)
	}

	client := submit.NewHTTPClient(cfg.APIBaseURL, time.Duration(cfg.APITimeoutS)*time.Second)
	sub := &submit.Submitter{Wizard: w, Client: client}

	created, err := sub.Submit(context.Background())
	if err != nil {
		if msg := w.StepError(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return err
	}

	fmt.Printf("Ad published: %s (%s, %s)\n", created.Title, created.Category, created.ID)
	return nil
}

// fillWizard pushes the flag values through the wizard's setters, exactly
// as the web form would.
func fillWizard(w *wizard.Controller) error {
	cat := wizard.Category(strings.ToLower(strings.TrimSpace(categoryFlag)))
	switch cat {
	case wizard.CategoryAuto, wizard.CategoryRealEstate, wizard.CategoryJobs, wizard.CategoryServices:
	default:
		return fmt.Errorf("unknown category %q (want auto, real-estate, jobs, or services)", categoryFlag)
	}
	w.SetCategory(cat)
	w.SetTitle(titleFlag)
	w.SetPrice(priceFlag)
	w.SetPriceUnit(priceUnitFlag)
	w.SetLocation(wilayaFlag)
	w.SetDescription(descriptionFlag)

	for _, kv := range detailFlags {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --detail %q (want key=value)", kv)
		}
		if !applyDetail(w, cat, key, value) {
			return fmt.Errorf("unknown detail field %q for category %s", key, cat)
		}
	}
	return nil
}

// applyDetail routes one key=value pair into the active category's variant.
func applyDetail(w *wizard.Controller, cat wizard.Category, key, value string) bool {
	ok := true
	switch cat {
	case wizard.CategoryAuto:
		w.UpdateAuto(func(d *wizard.AutoDetails) {
			switch key {
			case "brand":
				d.Brand = value
			case "model":
				d.Model = value
			case "year":
				d.Year = value
			case "mileage":
				d.Mileage = value
			case "fuelType":
				d.FuelType = value
			case "transmission":
				d.Transmission = value
			case "color":
				d.Color = value
			case "condition":
				d.Condition = value
			default:
				ok = false
			}
		})
	case wizard.CategoryRealEstate:
		w.UpdateRealEstate(func(d *wizard.RealEstateDetails) {
			switch key {
			case "type":
				d.Type = value
			case "area":
				d.Area = value
			case "bedrooms":
				d.Bedrooms = value
			case "bathrooms":
				d.Bathrooms = value
			case "floor":
				d.Floor = value
			case "furnished":
				d.Furnished = value
			default:
				ok = false
			}
		})
	case wizard.CategoryJobs:
		w.UpdateJob(func(d *wizard.JobDetails) {
			switch key {
			case "company":
				d.Company = value
			case "jobType":
				d.JobType = value
			case "experience":
				d.Experience = value
			case "remote":
				d.Remote = value
			case "sector":
				d.Sector = value
			default:
				ok = false
			}
		})
	case wizard.CategoryServices:
		w.UpdateService(func(d *wizard.ServiceDetails) {
			switch key {
			case "specialty":
				d.Specialty = value
			case "rateType":
				d.RateType = value
			case "yearsExp":
				d.YearsExp = value
			case "availability":
				d.Availability = value
			default:
				ok = false
			}
		})
	}
	return ok
}

// contentTypeFor maps an image path extension to the intake allowlist.
func contentTypeFor(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// attachImages reads each --image path and runs it through the intake
// pipeline, waiting for all encodes to settle.
func attachImages(in *intake.Controller) error {
	files := make([]intake.File, 0, len(imageFlags))
	for _, path := range imageFlags {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image %s: %w", path, err)
		}
		files = append(files, intake.File{
			Name:        path,
			ContentType: contentTypeFor(path),
			Data:        data,
		})
	}
	if len(files) == 0 {
		return nil
	}

	rcpt := in.AcceptFiles(files)
	in.WaitIdle()

	if msg := in.ErrorMessage(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	log.Info().
		Int("attached", in.Count()).
		Int("rejected", len(rcpt.Rejected)).
		Int("truncated", rcpt.TruncatedBy).
		Msg("Images processed")
	return nil
}

// advanceToFinalStep walks the wizard forward, surfacing the first
// validation refusal as the command's error.
func advanceToFinalStep(w *wizard.Controller) error {
	for w.Step() != wizard.StepMedia {
		step := w.Step()
		if !w.Next() {
			return fmt.Errorf("step %d: %s", step, w.StepError())
		}
	}
	return nil
}

// printRequest writes the assembled request as indented JSON with image
// payloads elided — they are base64 blobs nobody wants on a terminal.
func printRequest(req submit.CreateAdRequest) error {
	display := req
	display.Image = imaging.Payload(fmt.Sprintf("<%d bytes>", len(req.Image)))
	display.Images = make([]imaging.Payload, len(req.Images))
	for i, img := range req.Images {
		display.Images[i] = imaging.Payload(fmt.Sprintf("<%d bytes>", len(img)))
	}

	out, err := json.MarshalIndent(display, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
