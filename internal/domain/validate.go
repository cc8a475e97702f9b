package domain

import "strings"

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// ValidateRegistration checks the shape of registration input. Uniqueness is not
// checked here; the store's unique constraints are the authority for that.
func ValidateRegistration(email, username, password, confirmPassword string) FieldErrors {
	errs := FieldErrors{}
	if !strings.Contains(email, "@") {
		errs["email"] = "Invalid email address"
	}
	if len(username) < minUsernameLength {
		errs["username"] = "Username must be at least 3 characters long"
	}
	if err := ValidatePassword(password, confirmPassword); err != nil {
		for field, msg := range err {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidatePassword enforces the password rules shared by registration and reset.
func ValidatePassword(password, confirmPassword string) FieldErrors {
	errs := FieldErrors{}
	if len(password) < minPasswordLength {
		errs["password"] = "Password must be at least 6 characters long"
	}
	if password != confirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateLogin only requires presence; credential checking happens against the store.
func ValidateLogin(usernameOrEmail, password string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(usernameOrEmail) == "" {
		errs["usernameOrEmail"] = "Username or Email is required"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
