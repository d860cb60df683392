package catalog

// Genre is a category tag, e.g. Science Fiction or Poetry.
type Genre struct {
	ID   int64
	Name string `validate:"required,max=200"`
}

func (g Genre) String() string {
	return g.Name
}

// Language is the language a book is written in.
type Language struct {
	ID   int64
	Name string `validate:"required,max=200"`
}

func (l Language) String() string {
	return l.Name
}
