package service

import "strings"

const medicalDisclaimer = "\n\n*Disclaimer: I am an AI assistant and not a qualified healthcare professional. This information is for educational purposes only. Please consult a doctor for medical advice.*"

type keywordReply struct {
	keyword string
	reply   string
}

// Matched in order; the first keyword found in the question wins.
var keywordReplies = []keywordReply{
	{"fever", "Fever is usually a sign your body is fighting infection. Common causes include viral or bacterial infections. Make sure to stay hydrated and rest. If fever is high (over 103°F/39.4°C), persists more than 3 days, or is accompanied by severe symptoms, please consult a healthcare provider."},
	{"headache", "Headaches can have many causes including stress, dehydration, tension, or underlying conditions. Rest in a quiet room, stay hydrated, and consider over-the-counter pain relief if appropriate. If headaches are severe, sudden, or persistent, please see a doctor for proper evaluation."},
	{"cough", "Coughs can be due to colds, allergies, or other respiratory conditions. Stay hydrated, use a humidifier, and consider honey for soothing. If cough persists more than 3 weeks, causes breathing difficulty, or is accompanied by fever, seek medical attention."},
	{"covid", "If you suspect COVID-19, follow current public health guidelines including testing and isolation. Monitor symptoms closely and contact a healthcare provider for guidance. Seek emergency care for severe symptoms like difficulty breathing."},
	{"pain", "Pain is your body's way of signaling something might be wrong. The appropriate response depends on the location, severity, and duration. For severe, sudden, or persistent pain, please consult a healthcare professional for proper evaluation."},
	{"stress", "Stress can affect both mental and physical health. Techniques like deep breathing, exercise, adequate sleep, and mindfulness can help. If stress is overwhelming or affecting daily life, consider speaking with a mental health professional."},
}

const defaultReply = "Thank you for your health question. I can provide general medical information, but I'm not a substitute for professional medical advice. For personalized guidance or concerning symptoms, please consult with a qualified healthcare provider who can properly evaluate your situation."

// FallbackReply answers from a fixed keyword table when the AI model is
// unavailable.
func FallbackReply(question string) string {
	text := strings.ToLower(question)
	for _, kr := range keywordReplies {
		if strings.Contains(text, kr.keyword) {
			return kr.reply + medicalDisclaimer
		}
	}
	return defaultReply + medicalDisclaimer
}
