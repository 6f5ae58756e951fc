package knowledge

import "errors"

// ErrEmptyTitle indicates an entry without a title.
var ErrEmptyTitle = errors.New("title is required")

// ErrEmptyContent indicates an entry without content.
var ErrEmptyContent = errors.New("content is required")

// ErrContentTooLong indicates content over MaxContentLength characters.
var ErrContentTooLong = errors.New("content exceeds maximum length")

// ErrEmptyQuery indicates a search without a query string.
var ErrEmptyQuery = errors.New("query is required")

// ErrNotAuthor indicates a mutation by someone other than the entry author.
var ErrNotAuthor = errors.New("only the original author can modify the entry")
