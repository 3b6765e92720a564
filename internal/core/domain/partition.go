package domain

// Partition identifies an independent retrieval corpus.
// Each partition maps to its own vector collection.
type Partition string

// Available partitions.
const (
	// PartitionTopics holds chunks derived from Topic documents.
	PartitionTopics Partition = "topics"

	// PartitionProblems holds chunks derived from Problem documents.
	PartitionProblems Partition = "problems"
)

// IsValid returns true if the partition is recognised.
func (p Partition) IsValid() bool {
	switch p {
	case PartitionTopics, PartitionProblems:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Partition) String() string {
	return string(p)
}

// AllPartitions returns every known partition.
func AllPartitions() []Partition {
	return []Partition{PartitionTopics, PartitionProblems}
}

// ParsePartition converts a user-supplied name into a Partition.
// Singular forms are accepted ("topic", "problem").
func ParsePartition(s string) (Partition, bool) {
	switch s {
	case "topics", "topic":
		return PartitionTopics, true
	case "problems", "problem":
		return PartitionProblems, true
	default:
		return "", false
	}
}
