package service

// CodeGenerator produces one-time verification codes.
type CodeGenerator interface {
	// Generate returns a uniformly random six digit code in [100000, 999999].
	Generate() (string, error)
}
