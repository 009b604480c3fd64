package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

// PriceEstimator - то, что форма ждет от use case оценки
type PriceEstimator interface {
	Execute(ctx context.Context, raw domain.RawRecord) (*domain.PriceEstimate, error)
}

// целые поля, дробные значения в них не принимаем
var integerFields = map[string]bool{
	domain.FieldZipCode:  true,
	domain.FieldBedrooms: true,
	domain.FieldFacades:  true,
}

// AskProperty опрашивает все поля в порядке схемы.
// Площадь сада/террасы спрашивается только если соответствующий флаг "Yes", иначе 0.
func AskProperty(ctx context.Context, driver PromptDriver) (domain.RawRecord, error) {
	raw := make(domain.RawRecord, len(domain.FeatureSchema))

	for _, opt := range domain.FormOptions() {
		if opt.DependsOn != "" && raw[opt.DependsOn] != string(domain.BinaryYes) {
			raw[opt.Name] = 0.0
			continue
		}

		switch {
		case len(opt.Options) > 0:
			cfg := SelectConfig{Message: opt.Name + ":", Options: opt.Options, PageSize: len(opt.Options)}
			if opt.Kind == domain.KindBinary {
				cfg.Default = string(domain.BinaryNo)
			}
			value, err := driver.Select(ctx, cfg)
			if err != nil {
				return nil, err
			}
			raw[opt.Name] = value

		case opt.Kind == domain.KindCategorical:
			value, err := driver.Input(ctx, InputConfig{
				Message:   opt.Name + ":",
				Validator: requireText,
			})
			if err != nil {
				return nil, err
			}
			raw[opt.Name] = strings.TrimSpace(value)

		default:
			value, err := askNumber(ctx, driver, opt)
			if err != nil {
				return nil, err
			}
			raw[opt.Name] = value
		}
	}
	return raw, nil
}

func askNumber(ctx context.Context, driver PromptDriver, opt domain.FieldOption) (float64, error) {
	cfg := InputConfig{
		Message:   opt.Name + ":",
		Help:      rangeHelp(opt),
		Validator: numberValidator(opt),
	}
	if opt.Min != nil {
		cfg.Default = strconv.FormatFloat(*opt.Min, 'f', -1, 64)
	}

	answer, err := driver.Input(ctx, cfg)
	if err != nil {
		return 0, err
	}
	// драйвер мог не вызвать валидатор, проверяем еще раз
	if err := cfg.Validator(answer); err != nil {
		return 0, fmt.Errorf("%s: %w", opt.Name, err)
	}
	return strconv.ParseFloat(strings.TrimSpace(answer), 64)
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return nil
}

func numberValidator(opt domain.FieldOption) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("enter a number")
		}
		if integerFields[opt.Name] && v != math.Trunc(v) {
			return errors.New("enter a whole number")
		}
		if opt.Min != nil && v < *opt.Min {
			return fmt.Errorf("must be at least %g", *opt.Min)
		}
		if opt.Max != nil && v > *opt.Max {
			return fmt.Errorf("must be at most %g", *opt.Max)
		}
		return nil
	}
}

func rangeHelp(opt domain.FieldOption) string {
	switch {
	case opt.Min != nil && opt.Max != nil:
		return fmt.Sprintf("from %g to %g", *opt.Min, *opt.Max)
	case opt.Min != nil:
		return fmt.Sprintf("%g or more", *opt.Min)
	default:
		return ""
	}
}

// MsgPipelineMisconfigured - что видит пользователь при несовпадении артефактов и схемы
const MsgPipelineMisconfigured = "Prediction pipeline is misconfigured."

// Run - цикл формы: спросить, оценить, напечатать, предложить еще раз.
// Ошибки проверки и сбои модели печатаются и не прерывают цикл,
// причина сбоя уходит только в лог.
func Run(ctx context.Context, driver PromptDriver, estimator PriceEstimator, out io.Writer) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "cli"})
	for {
		raw, err := AskProperty(ctx, driver)
		if err != nil {
			return err
		}

		estimate, err := estimator.Execute(ctx, raw)
		var (
			verr     *domain.ValidationError
			infErr   *domain.InferenceError
			shapeErr *domain.ShapeMismatchError
		)
		switch {
		case errors.As(err, &verr):
			for _, msg := range verr.Messages() {
				fmt.Fprintln(out, msg)
			}
		case errors.As(err, &infErr):
			logger.Error("Model failed to produce a prediction", err, nil)
			fmt.Fprintln(out, domain.PublicInferenceMessage)
		case errors.As(err, &shapeErr):
			logger.Error("Artifacts do not match the feature schema", err, port.Fields{"stage": shapeErr.Stage})
			fmt.Fprintln(out, MsgPipelineMisconfigured)
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "The predicted price is: %s\n", estimate.Display)
		}

		again, err := driver.Confirm(ctx, ConfirmConfig{Message: "Estimate another property?"})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}
