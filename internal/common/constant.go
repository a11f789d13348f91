package common

// AuthHeaderName is the HTTP header carrying the bearer access token.
const AuthHeaderName = "Authorization"

// SnapshotCap is the maximum number of snapshots kept per profile.
// Creating one more evicts the oldest.
const SnapshotCap = 10

// GracePeriodDays is how long a soft-deleted record stays restorable.
const GracePeriodDays = 30

// LabelMaxLength is the longest snapshot label stored. Longer labels are
// truncated on create and rejected on rename.
const LabelMaxLength = 200
