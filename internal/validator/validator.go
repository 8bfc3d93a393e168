package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/farisarabic/faris-backend/internal/grade"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/video"
)

// trans is the singleton English translator for validation errors.
var (
	trans     ut.Translator
	setupOnce sync.Once
)

// egyptianMobile matches 11-digit Egyptian mobile numbers (010, 011, 012, 015).
var egyptianMobile = regexp.MustCompile(`^01[0-25][0-9]{8}$`)

// Setup registers the validator with English translations and the custom
// tags on Gin's binding engine. Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
			register(v)
		}
	})
}

func register(v *govalidator.Validate) {
	// Use the JSON tag name (or form tag for multipart payloads) in error keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("grade", func(fl govalidator.FieldLevel) bool {
		return grade.Valid(fl.Field().String())
	})
	_ = v.RegisterValidation("egphone", func(fl govalidator.FieldLevel) bool {
		return egyptianMobile.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("youtube", func(fl govalidator.FieldLevel) bool {
		return video.EmbedID(fl.Field().String()) != ""
	})
	v.RegisterStructValidation(questionStructLevel, model.QuestionRequest{})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	registerTranslation(v, "grade", "{0} must be a known grade level")
	registerTranslation(v, "egphone", "{0} must be a valid Egyptian mobile number")
	registerTranslation(v, "youtube", "{0} must be a YouTube video link")
	registerTranslation(v, "oneof_options", "{0} must be one of the options")
}

// questionStructLevel requires correct_answer to be one of the options.
func questionStructLevel(sl govalidator.StructLevel) {
	req := sl.Current().Interface().(model.QuestionRequest)
	if req.CorrectAnswer == "" {
		return
	}
	for _, opt := range req.Options {
		if opt == req.CorrectAnswer {
			return
		}
	}
	sl.ReportError(req.CorrectAnswer, "correct_answer", "CorrectAnswer", "oneof_options", "")
}

func registerTranslation(v *govalidator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		})
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldKey(fe)] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// fieldKey keeps the index for slice elements, so options[2] stays distinct.
func fieldKey(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindForm binds and validates multipart or urlencoded form fields into dst.
func BindForm(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindWith(dst, binding.FormMultipart); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
