package validation

// CustomMessage returns field-specific messages keyed by validation tag.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Email": {
			"required": "email is required",
			"email":    "email is not a valid address",
		},
		"Phone": {
			"required": "phone is required",
			"numeric":  "phone must contain digits only",
		},
		"Password": {
			"required": "password is required",
			"min":      "password must be at least 6 characters",
		},
		"Otp": {
			"required": "otp is required",
			"otpcode":  "otp must be a 6-digit code",
		},
		"Action": {
			"required":  "action is required",
			"otpaction": "action is not a supported OTP action",
		},
		"Role": {
			"role": "role must be one of USER, EMPLOYEE, ADMIN",
		},
		"Status": {
			"userstatus": "status must be one of PENDING, ACTIVE, INACTIVE, SUSPENDED",
		},
	}
	return customValidationMessages[field]
}
