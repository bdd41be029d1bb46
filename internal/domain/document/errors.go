package document

import "errors"

var (
	// ErrBlankName is returned when a page name is empty after trimming.
	ErrBlankName = errors.New("page name must not be blank")

	// ErrLastPage is returned when deleting the only remaining page.
	ErrLastPage = errors.New("cannot delete the last remaining page")

	// ErrNotInsertable is returned when a block outside the insertable category is placed.
	ErrNotInsertable = errors.New("block is not insertable")

	// ErrComponentNotFound is returned when a component id is not on any page.
	ErrComponentNotFound = errors.New("component not found")
)
