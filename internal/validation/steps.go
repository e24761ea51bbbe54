// Package validation holds the shared field constraints for the product
// creation wizard. The same per-step schemas gate step transitions and
// back the full check run before a product is persisted, so the two can
// never drift apart.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"wardrobe/internal/models"

	"github.com/go-playground/validator/v10"
)

// Step identifies one of the four ordered wizard steps.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepDetails
	StepPricing
	StepImage
)

// Errors maps a field name to a human-readable message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// stepFields lists which Product struct fields each schema-backed step
// covers. Step 4 (image) is checked outside the schema layer.
var stepFields = map[Step][]string{
	StepBasicInfo: {"Name", "Brand", "Category", "Description"},
	StepDetails:   {"Sizes", "Colors", "Material", "Fit", "Stock", "SKU"},
	StepPricing:   {"Price", "Discount"},
}

// fieldMessages maps a Product struct field to its form key and the
// message shown when the field fails validation.
var fieldMessages = map[string]struct {
	key     string
	message string
}{
	"Name":        {"name", "Product name is required"},
	"Brand":       {"brand", "Brand is required"},
	"Category":    {"category", "Category must be one of Men, Women or Kids"},
	"Description": {"description", "Description is required"},
	"Sizes":       {"sizes", "Add at least one size"},
	"Colors":      {"colors", "Colors required"},
	"Material":    {"material", "Material required"},
	"Fit":         {"fit", "Fit must be one of Slim, Regular or Oversized"},
	"Stock":       {"stock", "Stock required"},
	"SKU":         {"sku", "SKU required"},
	"Price":       {"price", "Price must be greater than 0"},
	"Discount":    {"discount", "Discount must be between 0 and 90"},
}

// ProductValidator evaluates the step schemas against a product.
type ProductValidator struct {
	validate *validator.Validate
}

// NewProductValidator creates a new ProductValidator.
func NewProductValidator() *ProductValidator {
	return &ProductValidator{
		validate: validator.New(),
	}
}

// ValidateStep checks a single wizard step against the product and
// returns a field-to-message map, or nil when the step passes.
func (v *ProductValidator) ValidateStep(step Step, product *models.Product) Errors {
	if step == StepImage {
		if product.Image == "" {
			return Errors{"image": "Image required"}
		}
		return nil
	}

	fields, ok := stepFields[step]
	if !ok {
		return Errors{"step": fmt.Sprintf("unknown wizard step %d", step)}
	}
	return v.collect(v.validate.StructPartial(product, fields...))
}

// ValidateProduct runs the schemas of steps 1-3 against the whole
// product, as done right before persistence.
func (v *ProductValidator) ValidateProduct(product *models.Product) Errors {
	fields := make([]string, 0, 12)
	for _, step := range []Step{StepBasicInfo, StepDetails, StepPricing} {
		fields = append(fields, stepFields[step]...)
	}
	return v.collect(v.validate.StructPartial(product, fields...))
}

// collect converts validator errors into the field-to-message map the
// wizard renders next to each input.
func (v *ProductValidator) collect(err error) Errors {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"form": err.Error()}
	}

	errs := make(Errors, len(validationErrors))
	for _, e := range validationErrors {
		// Dive failures report the element ("Sizes[1]"); fold them
		// back onto the parent field.
		field := e.StructField()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}

		fm, known := fieldMessages[field]
		if !known {
			errs[field] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			continue
		}
		if field == "Sizes" && e.Tag() == "unique" {
			errs[fm.key] = "Sizes must be distinct"
			continue
		}
		errs[fm.key] = fm.message
	}
	return errs
}

// Wizard tracks progress through the four ordered steps. Moving forward
// requires the current step to validate; moving backward never does.
type Wizard struct {
	validator *ProductValidator
	step      Step
	done      bool
}

// NewWizard starts a wizard at the basic-info step.
func NewWizard() *Wizard {
	return &Wizard{
		validator: NewProductValidator(),
		step:      StepBasicInfo,
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.step
}

// Done reports whether the final step has passed validation.
func (w *Wizard) Done() bool {
	return w.done
}

// Next validates the current step and advances on success. On failure
// the wizard stays put and the field errors are returned for rendering.
func (w *Wizard) Next(product *models.Product) Errors {
	if errs := w.validator.ValidateStep(w.step, product); errs != nil {
		return errs
	}
	if w.step == StepImage {
		w.done = true
		return nil
	}
	w.step++
	return nil
}

// Back moves to the previous step without re-validating anything.
func (w *Wizard) Back() {
	if w.step > StepBasicInfo {
		w.step--
		w.done = false
	}
}
