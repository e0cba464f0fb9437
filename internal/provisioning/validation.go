package provisioning

import (
	"fmt"
	"strings"

	"github.com/imamik/vpcctl/internal/config"
)

// Prefix lengths accepted for networks and subnets by the provider.
const (
	minPrefixLen = 16
	maxPrefixLen = 28
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// It rejects configurations the provider would refuse half way through a run.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	var errs []string
	for _, ve := range validate(ctx.Config) {
		if !ve.IsError() {
			ctx.Observer.Event(Event{
				Type:    EventValidationWarning,
				Phase:   vp.Name(),
				Message: ve.Message,
				Fields:  map[string]string{"field": ve.Field},
			})
			continue
		}
		ctx.Observer.Event(Event{
			Type:    EventValidationError,
			Phase:   vp.Name(),
			Message: ve.Message,
			Fields:  map[string]string{"field": ve.Field},
		})
		errs = append(errs, ve.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// validate runs all validation checks and returns any errors or warnings.
func validate(cfg *config.NetworkConfig) []ValidationError {
	if cfg == nil {
		return []ValidationError{{Field: "vpc", Message: "configuration is missing", Severity: "error"}}
	}

	// Structural problems make the provider checks meaningless.
	if err := cfg.Validate(); err != nil {
		return []ValidationError{{Field: "vpc", Message: err.Error(), Severity: "error"}}
	}

	var errs []ValidationError

	// --- Network ---

	if ve, ok := checkPrefix("vpc.cidr_block", cfg.CIDRBlock); !ok {
		errs = append(errs, ve)
	}

	// --- Subnets ---

	for i, subnet := range cfg.Subnets {
		field := fmt.Sprintf("subnets[%d]", i)
		if ve, ok := checkPrefix(field+".cidr_block", subnet.CIDRBlock); !ok {
			errs = append(errs, ve)
		}
		if !strings.HasPrefix(subnet.AvailabilityZone, cfg.Region) {
			errs = append(errs, ValidationError{
				Field:    field + ".availability_zone",
				Message:  fmt.Sprintf("availability zone %q is not in region %q", subnet.AvailabilityZone, cfg.Region),
				Severity: "error",
			})
		}
	}

	// --- Key backup ---

	if cfg.BucketRegion() != cfg.Region {
		errs = append(errs, ValidationError{
			Field:    "vpc.key_bucket_region",
			Message:  fmt.Sprintf("key backups are stored in %s, outside the network region %s", cfg.BucketRegion(), cfg.Region),
			Severity: "warning",
		})
	}

	return errs
}

func checkPrefix(field, cidr string) (ValidationError, bool) {
	prefix, err := config.ParseIPv4CIDR(cidr)
	if err != nil {
		return ValidationError{Field: field, Message: err.Error(), Severity: "error"}, false
	}
	if bits := prefix.Bits(); bits < minPrefixLen || bits > maxPrefixLen {
		return ValidationError{
			Field:    field,
			Message:  fmt.Sprintf("prefix /%d is outside the allowed range /%d to /%d", bits, minPrefixLen, maxPrefixLen),
			Severity: "error",
		}, false
	}
	return ValidationError{}, true
}
