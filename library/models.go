package library

// Entity type names stored in the type attribute.
const (
	TypeAuthor = "Author"
	TypeBook   = "Book"
	TypeUser   = "User"
	TypeRental = "Rental"
)

// BookStatus is the availability of a book.
type BookStatus string

const (
	BookAvailable    BookStatus = "AVAILABLE"
	BookNotAvailable BookStatus = "NOT_AVAILABLE"
	BookMissing      BookStatus = "MISSING"
)

// UserStatus is the verification state of a user.
type UserStatus string

const (
	UserNotVerified UserStatus = "NOT_VERIFIED"
	UserVerified    UserStatus = "VERIFIED"
	UserSuspended   UserStatus = "SUSPENDED"
)

// RentalStatus is the state of a rental.
type RentalStatus string

const (
	RentalBorrowed RentalStatus = "BORROWED"
	RentalReturned RentalStatus = "RETURNED"
)

// Timestamps are assigned by storage and never accepted from clients.
type Timestamps struct {
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Author writes books.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	Birthdate string `json:"birthdate" validate:"required,isodatetime"`
	Timestamps
}

// AuthorUpdate is a partial author; nil and empty fields are left unchanged.
type AuthorUpdate struct {
	Name      *string `json:"name,omitempty"`
	Birthdate *string `json:"birthdate,omitempty" validate:"omitempty,isodatetime"`
}

// AuthorKey identifies an author.
type AuthorKey struct {
	ID string `json:"id"`
}

// Book is a title held by the library, stored under its author.
type Book struct {
	BookID   string     `json:"bookId"`
	AuthorID string     `json:"authorId" validate:"required"`
	Title    string     `json:"title" validate:"required"`
	ISBN     string     `json:"isbn" validate:"required"`
	Status   BookStatus `json:"status" validate:"required,oneof=AVAILABLE NOT_AVAILABLE MISSING"`
	Timestamps
}

// BookUpdate is a partial book.
type BookUpdate struct {
	Title  *string     `json:"title,omitempty"`
	ISBN   *string     `json:"isbn,omitempty"`
	Status *BookStatus `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE NOT_AVAILABLE MISSING"`
}

// BookKey identifies a book within its author.
type BookKey struct {
	BookID   string `json:"bookId"`
	AuthorID string `json:"authorId"`
}

// User is a library member.
type User struct {
	ID      string     `json:"id"`
	Name    string     `json:"name" validate:"required"`
	Email   string     `json:"email" validate:"required"`
	Status  UserStatus `json:"status" validate:"required,oneof=NOT_VERIFIED VERIFIED SUSPENDED"`
	Comment string     `json:"comment"`
	Timestamps
}

// UserUpdate is a partial user.
type UserUpdate struct {
	Name    *string     `json:"name,omitempty"`
	Email   *string     `json:"email,omitempty"`
	Status  *UserStatus `json:"status,omitempty" validate:"omitempty,oneof=NOT_VERIFIED VERIFIED SUSPENDED"`
	Comment *string     `json:"comment,omitempty"`
}

// UserKey identifies a user.
type UserKey struct {
	ID string `json:"id"`
}

// Rental links a borrowed book to the user holding it.
type Rental struct {
	BookID  string       `json:"bookId" validate:"required"`
	UserID  string       `json:"userId" validate:"required"`
	Status  RentalStatus `json:"status" validate:"required,oneof=BORROWED RETURNED"`
	Comment string       `json:"comment"`
	Timestamps
}

// RentalUpdate is a partial rental.
type RentalUpdate struct {
	Status  *RentalStatus `json:"status,omitempty" validate:"omitempty,oneof=BORROWED RETURNED"`
	Comment *string       `json:"comment,omitempty"`
}

// RentalKey identifies a rental by its book and user.
type RentalKey struct {
	BookID string `json:"bookId"`
	UserID string `json:"userId"`
}
