package langdetect_test

import (
	"testing"

	"github.com/yaklabco/mdbook-pandoc/pkg/langdetect"
)

func BenchmarkDetect(b *testing.B) {
	samples := map[string]string{
		"rust":   "fn main() {\n    let mut v = Vec::new();\n    v.push(1);\n}\n",
		"python": "def hello():\n    print(\"hi\")\n\nif __name__ == \"__main__\":\n    hello()\n",
		"json":   "{\n  \"name\": \"book\",\n  \"chapters\": [1, 2, 3]\n}\n",
		"prose":  "a few words that match no pattern and reach the classifier\n",
		"empty":  "",
	}
	for name, code := range samples {
		content := []byte(code)
		b.Run(name, func(b *testing.B) {
			for b.Loop() {
				langdetect.Detect(content)
			}
		})
	}
}
