package secscore

import "github.com/mdmfern/WifiThreatAssessorProject/pkg/types"

// RiskAdvice is the narrative risk summary attached to networks whose
// authentication class has known weaknesses.
type RiskAdvice struct {
	Level    string   `json:"level"` // "High Risk" | "Medium Risk"
	Title    string   `json:"title"`
	Risks    []string `json:"risks"`
	Remedies []string `json:"remedies"`
}

var openAdvice = RiskAdvice{
	Level: "High Risk",
	Title: "Open Network Security Warning",
	Risks: []string{
		"Man-in-the-middle attacks - attackers can intercept your data",
		"Packet sniffing - unencrypted traffic can be captured",
		"Evil twin attacks - fake networks can mimic this one",
		"Data theft - passwords and personal information are vulnerable",
		"Malware distribution - easier to inject malicious code",
	},
	Remedies: []string{
		"Avoid connecting to open networks when possible",
		"Use a VPN to encrypt your traffic",
		"Disable file sharing and automatic connections",
		"Only visit HTTPS websites",
		"Don't access sensitive information",
		"Keep your firewall enabled",
	},
}

var wepAdvice = RiskAdvice{
	Level: "High Risk",
	Title: "WEP Security Warning",
	Risks: []string{
		"Easily crackable encryption - WEP can be broken in minutes",
		"Vulnerable to key recovery attacks",
		"No protection against packet forgery or replay attacks",
		"Outdated standard no longer considered secure",
	},
	Remedies: []string{
		"Upgrade the router to WPA2 or WPA3 encryption",
		"Replace hardware that only supports WEP",
		"Use a VPN for additional encryption",
		"Avoid transmitting sensitive information",
	},
}

var wpaAdvice = RiskAdvice{
	Level: "Medium Risk",
	Title: "WPA Security Notice",
	Risks: []string{
		"Vulnerable to TKIP attacks",
		"Susceptible to dictionary attacks on weak passwords",
		"Older implementation with known vulnerabilities",
	},
	Remedies: []string{
		"Upgrade to WPA2 or WPA3 if possible",
		"Use a strong, complex password",
		"Keep devices updated with security patches",
	},
}

// Advise returns risk information for networks with weak authentication.
// Returns nil for WPA2/WPA3 networks — they have no class-level findings.
func Advise(attrs types.NetworkAttributes) *RiskAdvice {
	switch attrs.Proto {
	case types.AuthProtoNone, "":
		a := openAdvice
		return &a
	case types.AuthProtoWEP:
		a := wepAdvice
		return &a
	case types.AuthProtoWPA:
		a := wpaAdvice
		return &a
	}
	return nil
}

// BaselineRecommendations is the generic advice for networks without
// class-level findings.
func BaselineRecommendations() []string {
	return []string{
		"Keep devices updated with security patches",
		"Use a strong, unique password for the network",
		"Enable additional security features such as MAC filtering if available",
		"Regularly check connected devices for unauthorized access",
	}
}
