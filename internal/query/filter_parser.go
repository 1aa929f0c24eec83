package query

// ParseQuery runs the full pipeline on a query string: tokenize, parse,
// build. Errors come back as the typed errors of the stage that failed;
// callers wanting a uniform public error wrap them.
//
// An empty queryStr is the caller's concern: this function expects at least
// one lookup and reports a syntax error otherwise.
func ParseQuery(queryStr string, allowed AllowedFields, maxDepth int) (FilterExpression, error) {
	tokenizer := NewTokenizer(queryStr)
	tokens, err := tokenizer.TokenizeAll()
	if err != nil {
		return nil, err
	}

	parser := NewASTParser(tokens, maxDepth)
	node, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	return BuildFilter(node, allowed)
}
