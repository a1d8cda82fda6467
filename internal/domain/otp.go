package domain

// OTPRecord is the pending login challenge for one admin email.
// PK: email (normalized lower-case). At most one active record per email:
// issuing a new code overwrites the previous record.
// CodeHash is a bcrypt hash; the plaintext code only ever exists in the
// outbound email. ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OTPRecord struct {
	Email     string `json:"email" dynamodbav:"email"`
	CodeHash  string `json:"code_hash" dynamodbav:"code_hash"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
