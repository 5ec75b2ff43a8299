package language

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty defaults to english",
			text: "",
			want: English,
		},
		{
			name: "pure ascii english",
			text: "Tell me about his latest publication",
			want: English,
		},
		{
			name: "hangul ratio above threshold",
			text: "고강빈의 최근 연구에 대해 알려주세요",
			want: Korean,
		},
		{
			name: "short korean greeting caught by indicator scan",
			text: "안녕!",
			want: Korean,
		},
		{
			name: "mostly english with korean indicator word",
			text: "please 설명 the project in detail for me",
			want: Korean,
		},
		{
			name: "numbers and punctuation only",
			text: "12345 !!!",
			want: English,
		},
		{
			name: "mixed but mostly english",
			text: "The CHI paper (LEGOLAS) was published in May 2025",
			want: English,
		},
		{
			// Spaces dilute the ratio below the threshold and no indicator
			// word appears, pinning the whitespace-in-denominator choice.
			name: "space-heavy mixed text stays english",
			text: "가나다라 a b c d e f g h",
			want: English,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
