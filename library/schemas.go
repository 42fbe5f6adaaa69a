package library

import (
	"github.com/jacentio/shelf/internal/keys"
	"github.com/jacentio/shelf/store"
)

// Table layouts of the four entity types.
var (
	AuthorSchema = store.Schema{
		Type:            TypeAuthor,
		ResourceType:    TypeAuthor,
		SubResourceType: TypeAuthor,
		Attributes:      []string{"name", "birthdate"},
	}
	BookSchema = store.Schema{
		Type:            TypeBook,
		ResourceType:    TypeBook,
		SubResourceType: TypeAuthor,
		Attributes:      []string{"title", "isbn"},
		StatusIndexed:   true,
	}
	UserSchema = store.Schema{
		Type:            TypeUser,
		ResourceType:    TypeUser,
		SubResourceType: TypeUser,
		Attributes:      []string{"name", "email", "comment"},
		StatusIndexed:   true,
	}
	RentalSchema = store.Schema{
		Type:            TypeRental,
		ResourceType:    TypeBook,
		SubResourceType: TypeUser,
		Attributes:      []string{"comment"},
		StatusIndexed:   true,
	}
)

// NewRegistry returns a registry holding every library schema.
func NewRegistry() *store.Registry {
	return store.NewRegistry(AuthorSchema, BookSchema, UserSchema, RentalSchema)
}

type (
	AuthorRepository = Repository[Author, AuthorUpdate, AuthorKey]
	BookRepository   = Repository[Book, BookUpdate, BookKey]
	UserRepository   = Repository[User, UserUpdate, UserKey]
	RentalRepository = Repository[Rental, RentalUpdate, RentalKey]
)

// Repositories bundles the repository of each entity type.
type Repositories struct {
	Authors *AuthorRepository
	Books   *BookRepository
	Users   *UserRepository
	Rentals *RentalRepository
}

// NewRepositories creates the repositories on top of one gateway.
func NewRepositories(gateway store.Gateway) *Repositories {
	return &Repositories{
		Authors: NewRepository(gateway, AuthorDescriptor),
		Books:   NewRepository(gateway, BookDescriptor),
		Users:   NewRepository(gateway, UserDescriptor),
		Rentals: NewRepository(gateway, RentalDescriptor),
	}
}

// fields collects the set, non-empty values of a partial update.
type fields []store.Field

func (f fields) add(name string, value *string) fields {
	if value == nil || *value == "" {
		return f
	}
	return append(f, store.Field{Name: name, Value: *value})
}

func ptr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

// AuthorDescriptor maps Authors onto AuthorSchema.
var AuthorDescriptor = Descriptor[Author, AuthorUpdate, AuthorKey]{
	Schema: AuthorSchema,
	Identify: func(m *Author) AuthorKey {
		m.ID = keys.NewID()
		return AuthorKey{ID: m.ID}
	},
	Locate:   func(k AuthorKey) (string, string) { return k.ID, k.ID },
	IDFields: [2]string{"id", "id"},
	KeyOf:    func(res, _ string) AuthorKey { return AuthorKey{ID: res} },
	Status:   func(Author) string { return "" },
	Attributes: func(m Author) map[string]string {
		return map[string]string{"name": m.Name, "birthdate": normalizeOrKeep(m.Birthdate)}
	},
	Changes: func(u AuthorUpdate) []store.Field {
		var birthdate *string
		if u.Birthdate != nil && *u.Birthdate != "" {
			n := normalizeOrKeep(*u.Birthdate)
			birthdate = &n
		}
		return fields(nil).add("name", u.Name).add("birthdate", birthdate)
	},
	Build: func(k AuthorKey, rec store.Record) Author {
		return Author{
			ID:         k.ID,
			Name:       rec.Attr("name"),
			Birthdate:  rec.Attr("birthdate"),
			Timestamps: Timestamps{CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt},
		}
	},
}

// BookDescriptor maps Books onto BookSchema.
var BookDescriptor = Descriptor[Book, BookUpdate, BookKey]{
	Schema: BookSchema,
	Identify: func(m *Book) BookKey {
		m.BookID = keys.NewID()
		return BookKey{BookID: m.BookID, AuthorID: m.AuthorID}
	},
	Locate:   func(k BookKey) (string, string) { return k.BookID, k.AuthorID },
	IDFields: [2]string{"bookId", "authorId"},
	KeyOf:    func(res, sub string) BookKey { return BookKey{BookID: res, AuthorID: sub} },
	Status:   func(m Book) string { return string(m.Status) },
	Attributes: func(m Book) map[string]string {
		return map[string]string{"title": m.Title, "isbn": m.ISBN}
	},
	Changes: func(u BookUpdate) []store.Field {
		return fields(nil).add("title", u.Title).add("isbn", u.ISBN).add(store.AttrStatus, ptr(u.Status))
	},
	Build: func(k BookKey, rec store.Record) Book {
		return Book{
			BookID:     k.BookID,
			AuthorID:   k.AuthorID,
			Title:      rec.Attr("title"),
			ISBN:       rec.Attr("isbn"),
			Status:     BookStatus(rec.Status),
			Timestamps: Timestamps{CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt},
		}
	},
}

// UserDescriptor maps Users onto UserSchema.
var UserDescriptor = Descriptor[User, UserUpdate, UserKey]{
	Schema: UserSchema,
	Identify: func(m *User) UserKey {
		m.ID = keys.NewID()
		return UserKey{ID: m.ID}
	},
	Locate:   func(k UserKey) (string, string) { return k.ID, k.ID },
	IDFields: [2]string{"id", "id"},
	KeyOf:    func(res, _ string) UserKey { return UserKey{ID: res} },
	Status:   func(m User) string { return string(m.Status) },
	Attributes: func(m User) map[string]string {
		return map[string]string{"name": m.Name, "email": m.Email, "comment": m.Comment}
	},
	Changes: func(u UserUpdate) []store.Field {
		return fields(nil).
			add("name", u.Name).
			add("email", u.Email).
			add(store.AttrStatus, ptr(u.Status)).
			add("comment", u.Comment)
	},
	Build: func(k UserKey, rec store.Record) User {
		return User{
			ID:         k.ID,
			Name:       rec.Attr("name"),
			Email:      rec.Attr("email"),
			Status:     UserStatus(rec.Status),
			Comment:    rec.Attr("comment"),
			Timestamps: Timestamps{CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt},
		}
	},
}

// RentalDescriptor maps Rentals onto RentalSchema.
var RentalDescriptor = Descriptor[Rental, RentalUpdate, RentalKey]{
	Schema:   RentalSchema,
	Identify: func(m *Rental) RentalKey { return RentalKey{BookID: m.BookID, UserID: m.UserID} },
	Locate:   func(k RentalKey) (string, string) { return k.BookID, k.UserID },
	IDFields: [2]string{"bookId", "userId"},
	KeyOf:    func(res, sub string) RentalKey { return RentalKey{BookID: res, UserID: sub} },
	Status:   func(m Rental) string { return string(m.Status) },
	Attributes: func(m Rental) map[string]string {
		return map[string]string{"comment": m.Comment}
	},
	Changes: func(u RentalUpdate) []store.Field {
		return fields(nil).add(store.AttrStatus, ptr(u.Status)).add("comment", u.Comment)
	},
	Build: func(k RentalKey, rec store.Record) Rental {
		return Rental{
			BookID:     k.BookID,
			UserID:     k.UserID,
			Status:     RentalStatus(rec.Status),
			Comment:    rec.Attr("comment"),
			Timestamps: Timestamps{CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt},
		}
	},
}
