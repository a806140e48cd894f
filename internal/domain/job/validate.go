package job

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/honeycarbs/jobboard/internal/domain"
)

// jobRules mirrors the persisted job fields that carry write-time rules
type jobRules struct {
	Title    string `validate:"notblank,max=200"`
	Company  string `validate:"notblank,max=200"`
	Location string `validate:"notblank,max=200"`
	JobType  string `validate:"oneof=Full-time Part-time Contract Internship Temporary"`
	URL      string `validate:"max=500"`
}

var fieldLabels = map[string]string{
	"Title":    "Title",
	"Company":  "Company",
	"Location": "Location",
	"JobType":  "Job type",
	"URL":      "URL",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("job: register notblank validation: %v", err))
	}
	return v
}

// validateJob checks every rule and returns a *domain.ValidationError listing
// all violations, or nil
func validateJob(j domain.Job) error {
	err := validate.Struct(jobRules{
		Title:    j.Title,
		Company:  j.Company,
		Location: j.Location,
		JobType:  string(j.JobType),
		URL:      j.URL,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &domain.ValidationError{Messages: []string{err.Error()}}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, ruleMessage(fe))
	}
	return &domain.ValidationError{Messages: messages}
}

func ruleMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]

	switch fe.Tag() {
	case "notblank":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		names := make([]string, 0, len(domain.JobTypes))
		for _, t := range domain.JobTypes {
			names = append(names, string(t))
		}
		return label + " must be one of: " + strings.Join(names, ", ")
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
