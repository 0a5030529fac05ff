package dto

// CreateStudentRequest is the body of the student-record endpoint
type CreateStudentRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Complete reports whether every field is present
func (r CreateStudentRequest) Complete() bool {
	return r.FirstName != "" && r.LastName != "" && r.Phone != ""
}
