package intelligence

// AlgorithmConfig selects which formula variant each derived metric uses.
// Values are free-form strings validated against a fixed allow-list by the
// engine that consumes them, mirroring how a coach's training philosophy
// picks among several accepted training-load models.
type AlgorithmConfig struct {
	TSS   string
	MaxHR string
	FTP   string
}

func defaultAlgorithmConfig() AlgorithmConfig {
	return AlgorithmConfig{
		TSS:   "coggan",
		MaxHR: "tanaka",
		FTP:   "twenty_minute_test",
	}
}
