package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/config"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/repository"
)

// Seeds a demo feedback form with branching logic plus two weeks of
// synthetic visits and submissions so the dashboard has data locally.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	formRepo := repository.NewFormRepo(db)
	visitRepo := repository.NewVisitRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)

	form := demoForm()
	formID, err := formRepo.Create(ctx, form)
	if err != nil {
		log.Fatalf("Failed to insert form: %v", err)
	}

	visits, submissions := syntheticTraffic(formID, form.Questions)
	for _, v := range visits {
		if err := visitRepo.CreateView(ctx, v); err != nil {
			log.Fatalf("Failed to insert visit: %v", err)
		}
		if v.StartedAt != nil {
			if err := visitRepo.MarkStarted(ctx, v.ID, *v.StartedAt); err != nil {
				log.Fatalf("Failed to mark visit started: %v", err)
			}
		}
		if v.LastQuestionID != "" {
			if err := visitRepo.UpdateProgress(ctx, v.ID, v.LastQuestionID, v.LastInteractionAt); err != nil {
				log.Fatalf("Failed to update visit progress: %v", err)
			}
		}
		if v.CompletedAt != nil {
			if err := visitRepo.MarkCompleted(ctx, v.ID, *v.CompletedAt); err != nil {
				log.Fatalf("Failed to mark visit completed: %v", err)
			}
		}
	}
	for _, s := range submissions {
		if err := submissionRepo.Create(ctx, s); err != nil {
			log.Fatalf("Failed to insert submission: %v", err)
		}
	}

	fmt.Printf("Seeded form %s with %d visits and %d submissions\n", formID, len(visits), len(submissions))
}

func demoForm() *model.Form {
	return &model.Form{
		Title:       "Product Feedback",
		Description: "Tell us how the launch went for you.",
		Published:   true,
		Welcome: model.WelcomeScreen{
			Enabled:     true,
			Title:       "We'd love your feedback",
			Description: "Five quick questions, two minutes tops.",
			ButtonText:  "Start",
		},
		Questions: []model.Question{
			{
				ID:          "q-rating",
				Type:        model.QuestionRating,
				Label:       "How satisfied are you with the product overall?",
				Required:    true,
				RatingScale: 5,
				Position:    0,
				Logic: &model.LogicJump{
					Enabled: true,
					Rules: []model.LogicRule{
						{
							ID:                    uuid.NewString(),
							Operator:              model.OpLessThan,
							Value:                 "4",
							DestinationType:       model.DestSpecificQuestion,
							DestinationQuestionID: "q-improve",
						},
					},
					DefaultDestinationType: model.DestNextQuestion,
				},
			},
			{
				ID:       "q-favorite",
				Type:     model.QuestionMultipleChoice,
				Label:    "Which features do you use the most?",
				Options:  []string{"Editor", "Templates", "Analytics", "Integrations"},
				Required: false,
				Position: 1,
				Logic: &model.LogicJump{
					Enabled:                true,
					Rules:                  []model.LogicRule{},
					DefaultDestinationType: model.DestSpecificQuestion,
					// Skip the improvement prompt for happy respondents
					DefaultDestinationQuestion: "q-email",
				},
				AllowMultiple: true,
			},
			{
				ID:       "q-improve",
				Type:     model.QuestionLongText,
				Label:    "What should we improve first?",
				Required: true,
				Position: 2,
			},
			{
				ID:       "q-email",
				Type:     model.QuestionEmail,
				Label:    "Leave your email if we can follow up",
				Required: false,
				Position: 3,
			},
		},
	}
}

func syntheticTraffic(formID string, questions []model.Question) ([]*model.FormVisit, []*model.Submission) {
	rng := rand.New(rand.NewSource(42))
	devices := []string{"desktop", "mobile", "tablet"}
	improvements := []string{
		"Faster load times",
		"Better mobile editor",
		"More templates",
		"Cheaper team plan",
		"Dark mode",
	}

	var visits []*model.FormVisit
	var submissions []*model.Submission

	for day := 0; day < 14; day++ {
		dayStart := time.Now().AddDate(0, 0, -day).Truncate(24 * time.Hour)

		for n := 0; n < 3+rng.Intn(6); n++ {
			created := dayStart.Add(time.Duration(rng.Intn(86400)) * time.Second)
			visit := &model.FormVisit{
				ID:                uuid.NewString(),
				FormID:            formID,
				Device:            devices[rng.Intn(len(devices))],
				Browser:           "Chrome",
				OS:                "macOS",
				Country:           "US",
				CreatedAt:         created,
				LastInteractionAt: created,
			}

			switch outcome := rng.Intn(10); {
			case outcome < 4: // bounced after viewing
			case outcome < 7: // started, dropped mid-form
				started := created.Add(10 * time.Second)
				visit.StartedAt = &started
				visit.LastQuestionID = questions[rng.Intn(len(questions)-1)].ID
				visit.LastInteractionAt = started.Add(30 * time.Second)
			default: // completed
				started := created.Add(10 * time.Second)
				completed := started.Add(time.Duration(60+rng.Intn(120)) * time.Second)
				visit.StartedAt = &started
				visit.CompletedAt = &completed
				visit.LastQuestionID = questions[len(questions)-1].ID
				visit.LastInteractionAt = completed

				rating := 1 + rng.Intn(5)
				answers := map[string]model.AnswerValue{
					"q-rating":   model.TextAnswer(fmt.Sprintf("%d", rating)),
					"q-favorite": model.MultiAnswer("Editor", "Analytics"),
				}
				if rating < 4 {
					answers["q-improve"] = model.TextAnswer(improvements[rng.Intn(len(improvements))])
				}
				submissions = append(submissions, &model.Submission{
					ID:          uuid.NewString(),
					FormID:      formID,
					Answers:     answers,
					SubmittedAt: completed,
					Device:      visit.Device,
				})
			}

			visits = append(visits, visit)
		}
	}

	return visits, submissions
}
