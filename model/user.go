package model

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
)

type User struct {
	Id                int64  `json:"id"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Username          string `json:"username,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	Role              Role   `json:"role"`
	IsVerified        bool   `json:"isVerified"`
	IsActive          bool   `json:"isActive"`
	MemberPoints      int    `json:"memberPoints,omitempty"`
}

type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Registration is the sign-up form. Accounts start unverified and receive a
// one-time code by email.
type Registration struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,strong_password"`
	FullName          string `json:"fullName" validate:"required,max=100"`
	Username          string `json:"username" validate:"required,min=3,max=50"`
	PhoneNumber       string `json:"phoneNumber" validate:"required,phone_number"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty" validate:"omitempty,url"`
}

type OTPToken struct {
	Id         int64     `json:"id"`
	OTP        string    `json:"otp"`
	ExpiryTime Timestamp `json:"expiryTime"`
}

type OTPCheck struct {
	Email string `validate:"required,email"`
	OTP   string `validate:"required,len=6,numeric"`
}

type PasswordReset struct {
	Email       string `validate:"required,email"`
	Token       string `validate:"required"`
	NewPassword string `validate:"required,strong_password"`
}

// ProfileUpdate replaces the editable profile fields. The backend overwrites
// the picture URL and email with whatever is sent, so callers start from the
// current profile.
type ProfileUpdate struct {
	FullName          string `json:"fullName" validate:"required,max=100"`
	Username          string `json:"username" validate:"required,min=3,max=50"`
	Email             string `json:"email" validate:"required,email"`
	PhoneNumber       string `json:"phoneNumber,omitempty" validate:"omitempty,phone_number"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty" validate:"omitempty,url"`
	Password          string `json:"password,omitempty" validate:"omitempty,strong_password"`
}

// ProfileUpdateFrom seeds an update with the user's current values.
func ProfileUpdateFrom(u User) ProfileUpdate {
	return ProfileUpdate{
		FullName:          u.FullName,
		Username:          u.Username,
		Email:             u.Email,
		PhoneNumber:       u.PhoneNumber,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}
