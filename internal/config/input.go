package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/homesim/internal/strategy"
	"gopkg.in/yaml.v3"
)

// Input is the YAML configuration record. Zero-valued fields are filled from
// the default tags before validation; rate fields are pointers so an explicit
// zero survives defaulting.
type Input struct {
	Household   HouseholdInput            `yaml:"household"`
	Assumptions AssumptionsInput          `yaml:"assumptions"`
	Events      EventsInput               `yaml:"events"`
	MonteCarlo  MonteCarloInput           `yaml:"monte_carlo"`
	Strategies  []string                  `yaml:"strategies" validate:"dive,required"`
	Overrides   map[string]OverridesInput `yaml:"overrides" validate:"dive"`
}

// HouseholdInput describes the two-adult household
type HouseholdInput struct {
	StartAges           []int        `yaml:"start_ages" validate:"len=2,dive,gte=18,lte=79"`
	InitialSavings      float64      `yaml:"initial_savings" validate:"gte=0"`
	Incomes             []float64    `yaml:"incomes" validate:"len=2,dive,gte=0"`
	Children            []ChildInput `yaml:"children" validate:"max=2,dive"`
	LivingCostPremium   float64      `yaml:"living_cost_premium" validate:"gte=0"`
	HasCar              bool         `yaml:"has_car"`
	HasPet              bool         `yaml:"has_pet"`
	MayRelocate         bool         `yaml:"may_relocate"`
	IDeCoMonthly        []float64    `yaml:"ideco_monthly" default:"[0,0]" validate:"len=2,dive,gte=0"`
	EmergencyFundMonths *float64     `yaml:"emergency_fund_months" default:"6" validate:"gte=0,lte=60"`
	SpecialExpenses     string       `yaml:"special_expenses"` // "age:amount[:label],..."
	PurchaseAge         int          `yaml:"purchase_age" validate:"omitempty,gte=18,lte=79"`
}

// ChildInput places a child by the primary earner's age at birth
type ChildInput struct {
	BirthAge        int `yaml:"birth_age" validate:"gte=15,lte=70"`
	IndependenceAge int `yaml:"independence_age" default:"22" validate:"gte=15,lte=30"`
}

// AssumptionsInput overrides the engine's economic assumptions
type AssumptionsInput struct {
	InflationRate          *float64  `yaml:"inflation_rate" default:"0.02" validate:"gte=-0.05,lte=0.2"`
	InflationSeries        []float64 `yaml:"inflation_series"`
	InvestmentReturn       *float64  `yaml:"investment_return" default:"0.05" validate:"gte=-0.5,lte=0.5"`
	InvestmentReturnSeries []float64 `yaml:"investment_return_series"`
	LandAppreciation       *float64  `yaml:"land_appreciation" default:"0.005" validate:"gte=-0.2,lte=0.2"`
	WageInflation          *float64  `yaml:"wage_inflation" default:"0.01" validate:"gte=-0.1,lte=0.2"`

	LoanRateSchedule []float64 `yaml:"loan_rate_schedule" validate:"omitempty,len=5,dive,gte=0,lte=0.2"`
	LoanTermYears    int       `yaml:"loan_term_years" default:"35" validate:"gte=1,lte=50"`

	RetirementAges   []int `yaml:"retirement_ages" default:"[70,70]" validate:"len=2,dive,gte=50,lte=80"`
	PensionStartAges []int `yaml:"pension_start_ages" default:"[70,70]" validate:"len=2,dive,gte=60,lte=75"`

	InvestmentDiscipline *float64 `yaml:"investment_discipline" default:"1" validate:"gte=0,lte=1"`
	DivorceSplitRatio    *float64 `yaml:"divorce_split_ratio" default:"0.5" validate:"gte=0,lte=1"`
	TerminalAge          int      `yaml:"terminal_age" default:"80" validate:"gte=50,lte=110"`
	MaxPurchaseAge       int      `yaml:"max_purchase_age" default:"55" validate:"gte=18,ltefield=TerminalAge"`

	Bucket BucketInput `yaml:"bucket"`
}

// BucketInput tunes the glide-path allocation
type BucketInput struct {
	SafeYears     float64  `yaml:"safe_years" default:"5" validate:"gte=0"`
	CashYears     float64  `yaml:"cash_years" default:"2" validate:"gte=0,ltefield=SafeYears"`
	GoldFraction  float64  `yaml:"gold_fraction" default:"0.05" validate:"gte=0,lte=1"`
	GoldEnabled   *bool    `yaml:"gold_enabled" default:"true"`
	RampYears     int      `yaml:"ramp_years" default:"5" validate:"gte=0"`
	RetirementAge int      `yaml:"retirement_age" default:"65" validate:"gte=40,lte=90"`
	BondReturn    *float64 `yaml:"bond_return" default:"0.01"`
	GoldReturn    *float64 `yaml:"gold_return" default:"0.03"`
	SafeCap       float64  `yaml:"safe_cap" default:"0.7" validate:"gt=0,lte=1"`
}

// EventsInput holds hazard probabilities; disable switches every hazard off
type EventsInput struct {
	Disable               bool     `yaml:"disable"`
	JobLossProb           *float64 `yaml:"job_loss_prob" default:"0.02" validate:"gte=0,lte=1"`
	JobLossMaxOccurrences int      `yaml:"job_loss_max_occurrences" default:"2" validate:"gte=0"`
	JobLossDurationMonths int      `yaml:"job_loss_duration_months" default:"6" validate:"gte=1"`
	ReemploymentAgeLimit  int      `yaml:"reemployment_age_limit" default:"60"`
	DisasterProb          *float64 `yaml:"disaster_prob" default:"0.005" validate:"gte=0,lte=1"`
	DisasterDamageRatio   float64  `yaml:"disaster_damage_ratio" default:"0.3" validate:"gte=0,lte=1"`
	InsuranceCoverage     float64  `yaml:"insurance_coverage" default:"0.5" validate:"gte=0,lte=1"`
	CareProb              *float64 `yaml:"care_prob" default:"0.05" validate:"gte=0,lte=1"`
	CareOnsetAge          int      `yaml:"care_onset_age" default:"75"`
	CareMonthlyCost       float64  `yaml:"care_monthly_cost" default:"100000" validate:"gte=0"`
	RentalRejectionProb   *float64 `yaml:"rental_rejection_prob" default:"0.03" validate:"gte=0,lte=1"`
	RentalRejectionCost   float64  `yaml:"rental_rejection_cost" default:"30000" validate:"gte=0"`
	DivorceProb           *float64 `yaml:"divorce_prob" default:"0.008" validate:"gte=0,lte=1"`
	SpouseDeathProb       *float64 `yaml:"spouse_death_prob" default:"0.004" validate:"gte=0,lte=1"`
	RelocationProb        *float64 `yaml:"relocation_prob" default:"0.02" validate:"gte=0,lte=1"`
	RelocationCost        float64  `yaml:"relocation_cost" default:"800000" validate:"gte=0"`
}

// MonteCarloInput holds batch settings
type MonteCarloInput struct {
	Trials                   int        `yaml:"trials" default:"1000" validate:"gte=1,lte=100000"`
	Seed                     int64      `yaml:"seed" default:"42"`
	ReturnVolatility         *float64   `yaml:"return_volatility" default:"0.15" validate:"gte=0,lte=1"`
	InflationVolatility      *float64   `yaml:"inflation_volatility" default:"0.01" validate:"gte=0,lte=0.2"`
	LandVolatility           *float64   `yaml:"land_volatility" default:"0.02" validate:"gte=0,lte=0.5"`
	InflationLandCorrelation *float64   `yaml:"inflation_land_correlation" default:"0.5" validate:"gte=-1,lte=1"`
	LoanRateShift            ShiftInput `yaml:"loan_rate_shift"`
	WageShift                ShiftInput `yaml:"wage_shift"`
	FixedPurchaseAge         bool       `yaml:"fixed_purchase_age"`
	Workers                  int        `yaml:"workers" default:"1" validate:"gte=1,lte=256"`
	CollectGrid              *bool      `yaml:"collect_grid" default:"true"`
}

// ShiftInput enables an optional correlated shift
type ShiftInput struct {
	Enabled     bool     `yaml:"enabled"`
	Volatility  float64  `yaml:"volatility" default:"0.005" validate:"gte=0,lte=0.1"`
	Correlation *float64 `yaml:"correlation" validate:"omitempty,gte=-1,lte=1"`
}

// OverridesInput replaces a strategy's default price, loan or rent
type OverridesInput struct {
	Price float64 `yaml:"price" validate:"gte=0"`
	Loan  float64 `yaml:"loan" validate:"gte=0"`
	Rent  float64 `yaml:"rent" validate:"gte=0"`
}

var validate = validator.New()

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*Input, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, defaults and validates a YAML document
func (ip *InputParser) Parse(data []byte) (*Input, error) {
	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateInput(&in); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &in, nil
}

// ValidateInput fills defaults and checks the record
func (ip *InputParser) ValidateInput(in *Input) error {
	if err := defaults.Set(in); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}
	// correlations default per shift
	if in.MonteCarlo.LoanRateShift.Correlation == nil {
		in.MonteCarlo.LoanRateShift.Correlation = ptr(0.6)
	}
	if in.MonteCarlo.WageShift.Correlation == nil {
		in.MonteCarlo.WageShift.Correlation = ptr(0.7)
	}

	if err := validate.Struct(in); err != nil {
		return describe(err)
	}
	if _, err := ParseSpecialExpenses(in.Household.SpecialExpenses); err != nil {
		return fmt.Errorf("household.special_expenses: %w", err)
	}
	if _, err := in.Kinds(); err != nil {
		return err
	}
	for name := range in.Overrides {
		if _, err := strategy.ParseKind(name); err != nil {
			return fmt.Errorf("overrides: %w", err)
		}
	}
	if in.Household.PurchaseAge > 0 && in.Household.PurchaseAge < in.Household.StartAges[0] {
		return fmt.Errorf("household.purchase_age %d is before start age %d", in.Household.PurchaseAge, in.Household.StartAges[0])
	}
	if in.Household.StartAges[0] >= in.Assumptions.TerminalAge {
		return fmt.Errorf("household.start_ages[0] %d must be below terminal_age %d", in.Household.StartAges[0], in.Assumptions.TerminalAge)
	}
	return nil
}

// describe turns validator errors into one readable error listing every field
func describe(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), err)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Input.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "len":
		return fmt.Sprintf("%s must have exactly %s entries", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func ptr[T any](v T) *T { return &v }
