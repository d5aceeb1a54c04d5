package network

import (
	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
)

// Analyzer inspects a user's sponsor tree.
type Analyzer interface {
	DirectsCount(userID uint) (int, error)
	TotalNetworkSize(userID uint) (int, error)
	GroupSizeAtDepth(userID uint, requiredDirects, depth int) (int, error)
	DetectGroupCompletions(userID uint) ([]LevelDetection, error)
	EligibleLevels(userID uint) ([]models.AutoPoolLevel, error)
	AnalyzeNetwork(userID uint) (*NetworkStats, error)
}

type analyzer struct {
	users repositories.UserRepository
	pool  repositories.AutoPoolRepository
}

func NewAnalyzer(users repositories.UserRepository, pool repositories.AutoPoolRepository) Analyzer {
	if users == nil || pool == nil {
		panic("network analyzer requires user and auto pool repositories")
	}
	return &analyzer{users: users, pool: pool}
}

// DirectsCount counts the immediate package-holding children.
func (a *analyzer) DirectsCount(userID uint) (int, error) {
	return a.users.QualifyingDirectsCount(userID)
}

// TotalNetworkSize counts every qualifying descendant within MaxNetworkDepth.
func (a *analyzer) TotalNetworkSize(userID uint) (int, error) {
	return a.networkSize(userID, MaxNetworkDepth)
}

func (a *analyzer) networkSize(userID uint, depth int) (int, error) {
	if depth <= 0 {
		return 0, nil
	}
	directs, err := a.users.QualifyingDirects(userID, 0)
	if err != nil {
		return 0, err
	}
	total := len(directs)
	for _, d := range directs {
		sub, err := a.networkSize(d.ID, depth-1)
		if err != nil {
			return 0, err
		}
		total += sub
	}
	return total, nil
}

// GroupSizeAtDepth measures the classic 4x4x4 shape. A node below the
// requiredDirects fan-out contributes 0 for its whole subtree, and only
// the first requiredDirects children count toward the shape; extras are
// ignored both here and in the recursion.
func (a *analyzer) GroupSizeAtDepth(userID uint, requiredDirects, depth int) (int, error) {
	if requiredDirects <= 0 || depth <= 0 {
		return 0, nil
	}
	directs, err := a.users.QualifyingDirects(userID, 0)
	if err != nil {
		return 0, err
	}
	if len(directs) < requiredDirects {
		return 0, nil
	}
	directs = directs[:requiredDirects]
	size := len(directs)
	if depth == 1 {
		return size, nil
	}
	for _, d := range directs {
		sub, err := a.GroupSizeAtDepth(d.ID, requiredDirects, depth-1)
		if err != nil {
			return 0, err
		}
		size += sub
	}
	return size, nil
}

// DetectGroupCompletions evaluates every active catalog level against the
// user's current tree shape. It reports shape only; package eligibility is
// the auto-pool engine's concern.
func (a *analyzer) DetectGroupCompletions(userID uint) ([]LevelDetection, error) {
	levels, err := a.pool.ActiveLevels()
	if err != nil {
		return nil, err
	}

	directs, err := a.DirectsCount(userID)
	if err != nil {
		return nil, err
	}
	networkSize, err := a.TotalNetworkSize(userID)
	if err != nil {
		return nil, err
	}

	detections := make([]LevelDetection, 0, len(levels))
	for _, lvl := range levels {
		size, err := a.GroupSizeAtDepth(userID, lvl.RequiredDirects, depthForLevel(lvl.Level))
		if err != nil {
			return nil, err
		}
		detections = append(detections, LevelDetection{
			Level:        lvl,
			Completed:    size >= lvl.RequiredGroupSize,
			GroupSize:    size,
			DirectsCount: directs,
			NetworkSize:  networkSize,
		})
	}
	return detections, nil
}

// EligibleLevels filters the catalog to levels the user's package tier and
// directs count allow.
func (a *analyzer) EligibleLevels(userID uint) ([]models.AutoPoolLevel, error) {
	user, err := a.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	levels, err := a.pool.ActiveLevels()
	if err != nil {
		return nil, err
	}
	directs, err := a.DirectsCount(userID)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.AutoPoolLevel, 0, len(levels))
	for _, lvl := range levels {
		if user.PackageLevel() >= lvl.RequiredPackageTier && directs >= lvl.RequiredDirects {
			eligible = append(eligible, lvl)
		}
	}
	return eligible, nil
}

// AnalyzeNetwork walks the qualifying tree breadth-first and aggregates
// per-depth membership and package distribution.
func (a *analyzer) AnalyzeNetwork(userID uint) (*NetworkStats, error) {
	stats := &NetworkStats{
		UserID:              userID,
		MembersByDepth:      make(map[int]int),
		PackageDistribution: make(map[string]int),
	}

	frontier := []uint{userID}
	for depth := 1; depth <= MaxNetworkDepth && len(frontier) > 0; depth++ {
		var next []uint
		for _, id := range frontier {
			directs, err := a.users.QualifyingDirects(id, 0)
			if err != nil {
				return nil, err
			}
			for _, d := range directs {
				stats.MembersByDepth[depth]++
				stats.TotalNetworkSize++
				if d.Package != nil {
					stats.PackageDistribution[d.Package.Name]++
				}
				next = append(next, d.ID)
			}
		}
		if stats.MembersByDepth[depth] > 0 {
			stats.DeepestLevel = depth
		}
		frontier = next
	}

	stats.DirectsCount = stats.MembersByDepth[1]
	return stats, nil
}

// depthForLevel maps a group level to its tree depth: 4 is one layer of
// directs, 16 two layers, 64 three, and so on.
func depthForLevel(level int) int {
	depth := 0
	for n := level; n > 1; n /= 4 {
		depth++
	}
	if depth == 0 {
		return 1
	}
	return depth
}
