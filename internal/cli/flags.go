package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is an optional YYYY-MM-DD flag. An empty value clears it.
type dateValue struct {
	t **time.Time
}

func newDateValue(t **time.Time) *dateValue { return &dateValue{t: t} }

func (v *dateValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		*v.t = nil
		return nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	t := d.Time(time.UTC)
	*v.t = &t
	return nil
}

func (v *dateValue) String() string {
	if v.t == nil || *v.t == nil {
		return ""
	}
	return (*v.t).Format("2006-01-02")
}

func (v *dateValue) Type() string { return "date" }

// dayValue is a YYYY-MM-DD flag held as a calendar day.
type dayValue struct {
	d *calendar.Date
}

func (v *dayValue) Set(s string) error {
	d, err := calendar.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	*v.d = d
	return nil
}

func (v *dayValue) String() string {
	if v.d == nil || v.d.IsZero() {
		return ""
	}
	return v.d.String()
}

func (v *dayValue) Type() string { return "date" }

// monthValue is a YYYY-MM flag held as the first day of the month.
type monthValue struct {
	d *calendar.Date
}

func (v *monthValue) Set(s string) error {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use YYYY-MM format")
	}
	*v.d = calendar.DateOf(t)
	return nil
}

func (v *monthValue) String() string {
	if v.d == nil || v.d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", v.d.Year, int(v.d.Month))
}

func (v *monthValue) Type() string { return "month" }

// periodValue is an optional execution period flag.
type periodValue struct {
	p **domain.PeriodType
}

func (v *periodValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		*v.p = nil
		return nil
	}
	p := domain.PeriodType(s)
	if !p.Valid() {
		return fmt.Errorf("period must be daily, weekly or monthly")
	}
	*v.p = &p
	return nil
}

func (v *periodValue) String() string {
	if v.p == nil || *v.p == nil {
		return ""
	}
	return string(**v.p)
}

func (v *periodValue) Type() string { return "period" }

// roleValue is a role flag checked against domain.ValidRoles.
type roleValue struct {
	r *domain.Role
}

func (v *roleValue) Set(s string) error {
	r, err := domain.ParseRole(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*v.r = r
	return nil
}

func (v *roleValue) String() string {
	if v.r == nil {
		return ""
	}
	return string(*v.r)
}

func (v *roleValue) Type() string { return "role" }

var (
	_ pflag.Value = (*dateValue)(nil)
	_ pflag.Value = (*dayValue)(nil)
	_ pflag.Value = (*monthValue)(nil)
	_ pflag.Value = (*periodValue)(nil)
	_ pflag.Value = (*roleValue)(nil)
)
