package models

import (
	"net/url"
	"strconv"

	"github.com/gookit/validate"
)

const (
	StatisticsLevelParanoid   = "paranoid"
	StatisticsLevelEnthusiast = "enthusiast"
)

func init() {
	validate.AddValidator("counter", func(val any) bool {
		s, ok := val.(string)
		if !ok {
			return false
		}
		n, err := strconv.ParseUint(s, 10, 63)
		return err == nil && n <= MaxCounter
	})
	validate.AddValidator("countryCounts", func(val any) bool {
		s, ok := val.(string)
		if !ok {
			return false
		}
		_, err := ParseStudentsPerCountry(s)
		return err == nil
	})
	validate.AddGlobalMessages(map[string]string{
		"counter":       "{field} must be a non-negative integer not above 1000000000",
		"countryCounts": "{field} must be a JSON object of country to non-negative student count",
	})
}

// EdxInstallationForm describes the reporting installation.
type EdxInstallationForm struct {
	AccessToken     string `json:"access_token" validate:"required|isUUID"`
	PlatformName    string `json:"platform_name" validate:"maxLen:255"`
	PlatformUrl     string `json:"platform_url" validate:"isURL"`
	StatisticsLevel string `json:"statistics_level" validate:"required|in:paranoid,enthusiast"`
}

func NewEdxInstallationForm(values url.Values) *EdxInstallationForm {
	return &EdxInstallationForm{
		AccessToken:     values.Get("access_token"),
		PlatformName:    values.Get("platform_name"),
		PlatformUrl:     values.Get("platform_url"),
		StatisticsLevel: values.Get("statistics_level"),
	}
}

func (f *EdxInstallationForm) Validate() error {
	return validateForm(f)
}

func (f *EdxInstallationForm) IsValid() bool {
	return f.Validate() == nil
}

// InstallationStatisticsForm carries the counters as submitted; they are
// converted to integers only after validation.
type InstallationStatisticsForm struct {
	InstancesCount             string `json:"instances_count" validate:"required|counter"`
	CoursesCount               string `json:"courses_count" validate:"required|counter"`
	StudentsCount              string `json:"students_count" validate:"required|counter"`
	GeneratedCertificatesCount string `json:"generated_certificates_count" validate:"required|counter"`
	StudentsPerCountry         string `json:"students_per_country" validate:"countryCounts"`
}

func NewInstallationStatisticsForm(values url.Values) *InstallationStatisticsForm {
	return &InstallationStatisticsForm{
		InstancesCount:             values.Get("instances_count"),
		CoursesCount:               values.Get("courses_count"),
		StudentsCount:              values.Get("students_count"),
		GeneratedCertificatesCount: values.Get("generated_certificates_count"),
		StudentsPerCountry:         values.Get("students_per_country"),
	}
}

func (f *InstallationStatisticsForm) Validate() error {
	return validateForm(f)
}

func (f *InstallationStatisticsForm) IsValid() bool {
	return f.Validate() == nil
}

func validateForm(form any) error {
	v := validate.Struct(form)
	if v.Validate() {
		return nil
	}
	return v.Errors
}
