package dashboard

import (
	"fmt"
	"strings"

	"PortfolioDesk/internal/model"

	"github.com/shopspring/decimal"
)

// ParseThreshold reads one alert form field. Blank means "no threshold".
// Both "1500.5" and "1500,5" are accepted.
func ParseThreshold(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", field, raw)
	}
	v := d.InexactFloat64()
	return &v, nil
}

// ParseRule builds a rule from the three form fields.
func ParseRule(minValue, minProfitLoss, minDailyPercent string) (model.AlertRule, error) {
	var (
		rule model.AlertRule
		err  error
	)
	if rule.MinCurrentValue, err = ParseThreshold("minDeger", minValue); err != nil {
		return rule, err
	}
	if rule.MinProfitLoss, err = ParseThreshold("minKz", minProfitLoss); err != nil {
		return rule, err
	}
	if rule.MinDailyPercent, err = ParseThreshold("minGunlukYuzde", minDailyPercent); err != nil {
		return rule, err
	}
	return rule, nil
}

func formValue(v *float64) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromFloat(*v).String()
}
