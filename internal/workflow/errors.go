// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import "errors"

var (
	errEmptyQuery = errors.New("query is empty: provide a research question")
	errNoAnswer   = errors.New("drafter returned no answer")
)
