package ec2

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// errorCode returns the API error code carried by err, or "".
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsNotFound checks if an error indicates a resource does not exist.
// EC2 reports these as "<Resource>.NotFound" codes, e.g. InvalidVpcID.NotFound.
func IsNotFound(err error) bool {
	return strings.HasSuffix(errorCode(err), ".NotFound")
}

// IsDependencyViolation checks if a delete failed because other resources
// still reference the target.
func IsDependencyViolation(err error) bool {
	return errorCode(err) == "DependencyViolation"
}

// IsAlreadyExists checks if a create failed because the resource exists.
func IsAlreadyExists(err error) bool {
	code := errorCode(err)
	return strings.HasSuffix(code, ".Duplicate") || code == "RouteAlreadyExists"
}

// IsAlreadyAssociated checks if an attach or associate call failed because
// the resource is already bound elsewhere.
func IsAlreadyAssociated(err error) bool {
	return errorCode(err) == "Resource.AlreadyAssociated"
}
