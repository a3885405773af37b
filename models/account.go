package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application status values
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode string `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

type ContactPerson struct {
	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	Designation string `bson:"designation,omitempty" json:"designation,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
}

type PersonalDetails struct {
	FirstName    string     `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string     `bson:"last_name,omitempty" json:"last_name,omitempty"`
	DOB          *time.Time `bson:"dob,omitempty" json:"dob,omitempty"`
	Gender       string     `bson:"gender,omitempty" json:"gender,omitempty"` // male, female, other
	AadharNumber string     `bson:"aadhar_number,omitempty" json:"aadhar_number,omitempty"`
	Phone        string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      Address    `bson:"address,omitempty" json:"address,omitempty"`
	Category     string     `bson:"category,omitempty" json:"category,omitempty"`
	Domicile     string     `bson:"domicile,omitempty" json:"domicile,omitempty"`
}

type College struct {
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Code    string `bson:"code,omitempty" json:"code,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

type AcademicDetails struct {
	CurrentCourse     string  `bson:"current_course,omitempty" json:"current_course,omitempty"`
	CurrentYear       int     `bson:"current_year,omitempty" json:"current_year,omitempty"`
	PreviousCourse    string  `bson:"previous_course,omitempty" json:"previous_course,omitempty"`
	PreviousMarks     float64 `bson:"previous_marks,omitempty" json:"previous_marks,omitempty"`
	BoardOrUniversity string  `bson:"board_or_university,omitempty" json:"board_or_university,omitempty"`
	AdmissionYear     int     `bson:"admission_year,omitempty" json:"admission_year,omitempty"`
	College           College `bson:"college,omitempty" json:"college,omitempty"`
	RollNumber        string  `bson:"roll_number,omitempty" json:"roll_number,omitempty"`
	Branch            string  `bson:"branch,omitempty" json:"branch,omitempty"`
	Semester          int     `bson:"semester,omitempty" json:"semester,omitempty"`
}

type BankDetails struct {
	AccountHolderName string `bson:"account_holder_name,omitempty" json:"account_holder_name,omitempty"`
	AccountNumber     string `bson:"account_number,omitempty" json:"account_number,omitempty"`
	IFSCCode          string `bson:"ifsc_code,omitempty" json:"ifsc_code,omitempty"`
	BankName          string `bson:"bank_name,omitempty" json:"bank_name,omitempty"`
	Branch            string `bson:"branch,omitempty" json:"branch,omitempty"`
}

// Application is the scholarship-application sub-record embedded on a
// student account. ReviewedBy references the SAG bureau account whose
// jurisdiction matches the student's declared state.
type Application struct {
	Status      string              `bson:"status" json:"status"` // pending, approved, rejected
	SubmittedAt *time.Time          `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	Comments    string              `bson:"comments,omitempty" json:"comments,omitempty"`
}

type StudentProfile struct {
	RegistrationNumber string               `bson:"registration_number" json:"registration_number"`
	Course             string               `bson:"course" json:"course"`
	Institution        string               `bson:"institution" json:"institution"`
	YearOfStudy        int                  `bson:"year_of_study" json:"year_of_study"`
	PersonalDetails    PersonalDetails      `bson:"personal_details,omitempty" json:"personal_details,omitempty"`
	AcademicDetails    AcademicDetails      `bson:"academic_details,omitempty" json:"academic_details,omitempty"`
	BankDetails        BankDetails          `bson:"bank_details,omitempty" json:"bank_details,omitempty"`
	Application        Application          `bson:"application" json:"application"`
	Documents          []primitive.ObjectID `bson:"documents" json:"documents"`

	// Disbursement tracking, maintained by the finance bureau.
	PaymentStatus  string               `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	LastPayment    *primitive.ObjectID  `bson:"last_payment,omitempty" json:"last_payment,omitempty"`
	PaymentHistory []primitive.ObjectID `bson:"payment_history,omitempty" json:"payment_history,omitempty"`
}

type OrganizationDetails struct {
	Name               string        `bson:"name" json:"name"`
	Type               string        `bson:"type" json:"type"` // government, private, autonomous
	RegistrationNumber string        `bson:"registration_number" json:"registration_number"`
	Address            Address       `bson:"address,omitempty" json:"address,omitempty"`
	ContactPerson      ContactPerson `bson:"contact_person,omitempty" json:"contact_person,omitempty"`
}

type ApplicationStats struct {
	TotalApplications    int       `bson:"total_applications" json:"total_applications"`
	PendingApplications  int       `bson:"pending_applications" json:"pending_applications"`
	ApprovedApplications int       `bson:"approved_applications" json:"approved_applications"`
	RejectedApplications int       `bson:"rejected_applications" json:"rejected_applications"`
	LastUpdated          time.Time `bson:"last_updated" json:"last_updated"`
}

type SAGSettings struct {
	MaxApplicationsPerDay int `bson:"max_applications_per_day" json:"max_applications_per_day"`
	AutoApproveThreshold  int `bson:"auto_approve_threshold" json:"auto_approve_threshold"` // percentage
}

// SAGProfile describes a regional approval bureau. State is the bureau's
// jurisdiction; at most one bureau exists per state (partial unique index).
type SAGProfile struct {
	State                 string              `bson:"state" json:"state"`
	OrganizationDetails   OrganizationDetails `bson:"organization_details" json:"organization_details"`
	VerificationDocuments []string            `bson:"verification_documents,omitempty" json:"verification_documents,omitempty"`
	Statistics            ApplicationStats    `bson:"statistics" json:"statistics"`
	Settings              SAGSettings         `bson:"settings" json:"settings"`
}

type PaymentStats struct {
	TotalPayments     int       `bson:"total_payments" json:"total_payments"`
	PendingPayments   int       `bson:"pending_payments" json:"pending_payments"`
	CompletedPayments int       `bson:"completed_payments" json:"completed_payments"`
	FailedPayments    int       `bson:"failed_payments" json:"failed_payments"`
	TotalAmount       float64   `bson:"total_amount" json:"total_amount"`
	LastUpdated       time.Time `bson:"last_updated" json:"last_updated"`
}

type FinanceSettings struct {
	MaxPaymentsPerDay    int     `bson:"max_payments_per_day" json:"max_payments_per_day"`
	AutoPaymentThreshold float64 `bson:"auto_payment_threshold" json:"auto_payment_threshold"` // amount in rupees
}

type FinanceProfile struct {
	DepartmentName   string          `bson:"department_name" json:"department_name"`
	DepartmentCode   string          `bson:"department_code" json:"department_code"`
	Address          Address         `bson:"address,omitempty" json:"address,omitempty"`
	ContactPerson    ContactPerson   `bson:"contact_person,omitempty" json:"contact_person,omitempty"`
	PaymentDocuments []string        `bson:"payment_documents,omitempty" json:"payment_documents,omitempty"`
	Statistics       PaymentStats    `bson:"statistics" json:"statistics"`
	Settings         FinanceSettings `bson:"settings" json:"settings"`
}

// Account is any authenticated principal, tagged by role. Exactly one of the
// role-specific profile blocks is set, matching Role. Email is unique per
// role (compound unique index on role+email). The password hash is never
// serialized into a response.
type Account struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Role     string             `bson:"role" json:"role"` // student, sag, finance
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	IsActive bool               `bson:"is_active" json:"is_active"`

	LastLogin           time.Time  `bson:"last_login" json:"last_login"`
	ResetPasswordToken  string     `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpire *time.Time `bson:"reset_password_expire,omitempty" json:"-"`

	Student *StudentProfile `bson:"student,omitempty" json:"student,omitempty"`
	SAG     *SAGProfile     `bson:"sag,omitempty" json:"sag,omitempty"`
	Finance *FinanceProfile `bson:"finance,omitempty" json:"finance,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// State returns the student's declared state, or "" when not a student.
func (a *Account) State() string {
	if a.Student == nil {
		return ""
	}
	return a.Student.PersonalDetails.Address.State
}
