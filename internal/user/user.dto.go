package user

type CreateUserRequest struct {
	ClerkID   string `json:"clerkId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	F3Name    string `json:"f3Name" validate:"required,min=2,max=30"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type UpdateProfileRequest struct {
	F3Name    string  `json:"f3Name,omitempty"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	HomeAoID  *string `json:"homeAoId,omitempty"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required"`
}
