package network

import "github.com/srigunasankarkatta/mlm-backend/internal/models"

// MaxNetworkDepth bounds every whole-tree traversal.
const MaxNetworkDepth = 10

// LevelDetection is the analyzer's verdict for one auto-pool level.
type LevelDetection struct {
	Level        models.AutoPoolLevel `json:"level"`
	Completed    bool                 `json:"completed"`
	GroupSize    int                  `json:"group_size"`
	DirectsCount int                  `json:"directs_count"`
	NetworkSize  int                  `json:"network_size"`
}

// NetworkStats is a whole-tree snapshot for reporting.
type NetworkStats struct {
	UserID              uint           `json:"user_id"`
	DirectsCount        int            `json:"directs_count"`
	TotalNetworkSize    int            `json:"total_network_size"`
	DeepestLevel        int            `json:"deepest_level"`
	MembersByDepth      map[int]int    `json:"members_by_depth"`
	PackageDistribution map[string]int `json:"package_distribution"`
}
