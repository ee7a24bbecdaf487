package feed

import (
	"net/url"
	"strings"
	"testing"
)

func TestContentExtractor_ValidHTML(t *testing.T) {
	extractor := NewContentExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Understanding Transformers</title>
	</head>
	<body>
		<header>
			<h1>Site Header</h1>
			<nav>Navigation</nav>
		</header>
		<main>
			<article>
				<h1>Understanding Transformers</h1>
				<p>The Transformer architecture has revolutionized natural language processing. It relies on attention to relate every position of a sequence to every other position.</p>
				<p>Unlike recurrent networks, Transformers process whole sequences in parallel. This makes training on large corpora practical and has enabled the current generation of language models.</p>
				<p>The encoder and decoder stacks are built from identical layers combining multi-head attention with position-wise feed-forward networks and residual connections.</p>
			</article>
		</main>
		<aside>
			<div>Advertisement</div>
		</aside>
		<footer>
			<p>Copyright 2025</p>
		</footer>
	</body>
	</html>
	`

	pageURL, _ := url.Parse("https://old.example.com/posts/understanding-transformers")
	result, err := extractor.Run([]byte(htmlContent), pageURL)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(result, "revolutionized natural language processing") {
		t.Errorf("Expected extracted content to contain main article text")
	}

	if strings.Contains(result, "Copyright 2025") {
		t.Errorf("Expected extracted content to exclude footer")
	}

	if strings.Contains(result, "<p>") {
		t.Errorf("Expected plain text without markup, got: %s", result)
	}

	if strings.Contains(result, "\n") || strings.Contains(result, "  ") {
		t.Errorf("Expected collapsed whitespace, got: %q", result)
	}
}

func TestContentExtractor_FragmentWithoutURL(t *testing.T) {
	extractor := NewContentExtractor()

	fragment := `<div><p>Python has become the lingua franca of data science. Libraries such as pandas and NumPy make it easy to load, clean and analyse data, while scikit-learn covers most classical machine learning algorithms.</p><p>Jupyter notebooks round out the toolbox with an interactive environment for exploration.</p></div>`

	result, err := extractor.Run([]byte(fragment), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(result, "lingua franca of data science") {
		t.Errorf("Expected fragment text in result, got: %s", result)
	}
}

func TestContentExtractor_EmptyData(t *testing.T) {
	extractor := NewContentExtractor()

	for _, data := range [][]byte{nil, {}, []byte("   \n\t")} {
		result, err := extractor.Run(data, nil)

		if err == nil {
			t.Fatalf("Expected error for empty data %q", data)
		}

		if result != "" {
			t.Errorf("Expected empty result for empty data")
		}

		expectedError := "HTML data is empty"
		if err.Error() != expectedError {
			t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
		}
	}
}

func TestContentExtractor_InvalidHTML(t *testing.T) {
	extractor := NewContentExtractor()

	htmlContent := `<html><body><p>Unclosed paragraph<div>Malformed content</body>`

	result, err := extractor.Run([]byte(htmlContent), nil)

	// Malformed markup may still yield text; either outcome must be consistent.
	if err != nil {
		if result != "" {
			t.Errorf("Expected empty result when extraction fails")
		}
	} else if result == "" {
		t.Errorf("Expected non-empty result when extraction succeeds")
	}
}
