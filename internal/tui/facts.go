package tui

// habitFacts holds a short fact for each predefined habit.
var habitFacts = map[string]string{
	"Smoking":               "Quitting smoking drastically reduces risks of cancer, heart disease, and lung problems. You'll breathe easier and have more energy.",
	"Excessive Sugar":       "Reducing sugar intake helps manage weight, improves dental health, lowers diabetes risk, and can lead to more stable energy levels.",
	"Nail Biting":           "Stopping nail biting prevents infections, improves nail appearance, and reduces dental issues. It's often linked to stress relief.",
	"Procrastination":       "Overcoming procrastination reduces stress, improves productivity, boosts self-esteem, and helps achieve goals more effectively.",
	"Excessive Screen Time": "Limiting screen time, especially before bed, improves sleep quality, reduces eye strain, and encourages more physical activity or real-world interaction.",
	"Alcohol":               "Reducing or quitting alcohol improves liver health, aids weight loss, enhances sleep quality, boosts mental clarity, and lowers risks of various diseases.",
	"Caffeine":              "Lowering caffeine intake can reduce anxiety, improve sleep, prevent digestive issues, and decrease dependency.",
	"Junk Food":             "Avoiding junk food helps maintain a healthy weight, provides better nutrition, increases energy levels, and lowers risks of chronic diseases like heart disease and diabetes.",
}

// Fact returns the fact of a predefined habit.
func Fact(name string) (string, bool) {
	fact, ok := habitFacts[name]
	return fact, ok
}
