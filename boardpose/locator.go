// Package boardpose estimates the rigid-body pose of a planar checkerboard
// calibration target relative to a depth camera. It turns detected line
// segments and an organized point cloud into a transform from the camera
// frame to the board frame: segments are split into horizontal and vertical
// groups, pairwise intersections are looked up in 3D and deduplicated,
// corner candidates are picked by quadrant around the centroid, and a brute
// force search over candidate triples keeps the rigid fit that best matches
// the ideal board grid.
package boardpose

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/spatialmath"
)

// ErrNoIntersections means no segment pair produced a usable 3D point.
var ErrNoIntersections = errors.New("empty intersection cloud")

// TransformBroadcaster receives the final board pose for publication, keyed
// by the camera frame, the target frame name and the source cloud timestamp.
type TransformBroadcaster interface {
	SendTransform(ctx context.Context, parent, child string, pose spatialmath.Pose, stamp time.Time) error
}

// Result is the outcome of one successful locator invocation.
type Result struct {
	// Pose is the board frame expressed in the camera frame, ready for
	// broadcast.
	Pose spatialmath.Pose
	// Score is the fit error of the winning transform; lower is better.
	Score float64
	// Cloud holds the deduplicated intersection points used for the fit.
	Cloud *IntersectionCloud
	// Candidates are the corner index sets the search ran over.
	Candidates Candidates
	// Frame is the diagnostic frame counter value for this invocation.
	Frame int
}

// Locator runs the pose estimation pipeline once per synchronized
// (image, point cloud) pair. It keeps no state across invocations except a
// diagnostic frame counter, and is not safe for concurrent use.
type Locator struct {
	cfg         *Config
	board       Board
	broadcaster TransformBroadcaster
	logger      logging.Logger
	frames      int
}

// NewLocator returns a locator with the given config; nil means defaults.
// The broadcaster may be nil, in which case no transform is published.
func NewLocator(cfg *Config, broadcaster TransformBroadcaster, logger logging.Logger) (*Locator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Locator{
		cfg:         cfg,
		board:       Board{SquareSize: cfg.SquareSize},
		broadcaster: broadcaster,
		logger:      logger,
	}, nil
}

// Process locates the board in one synchronized pair. segments are the
// pre-extracted line segments of the color image, cloud gives pixel to 3D
// random access into the organized cloud, and frameID/stamp identify the
// cloud's frame and capture time. On success the inverted (board to camera)
// transform is handed to the broadcaster. Returns ErrNoSolution when no pose
// fits; the caller simply retries on the next pair.
func (l *Locator) Process(
	ctx context.Context,
	segments []Segment,
	cloud PointAccessor,
	frameID string,
	stamp time.Time,
) (*Result, error) {
	l.frames++

	horizontal, vertical := ClassifySegments(segments)
	l.logger.Debugf("frame %d: %d lines, %d horizontal, %d vertical",
		l.frames, len(segments), len(horizontal), len(vertical))

	ic := ExtractIntersections(horizontal, vertical, cloud, l.cfg, frameID, stamp)
	l.logger.Debugf("frame %d: intersection cloud of size %d", l.frames, ic.Size())
	if ic.Size() == 0 {
		return nil, errors.Wrap(ErrNoSolution, ErrNoIntersections.Error())
	}

	cands := SelectCandidates(ic, l.cfg.DeadZone)
	l.logger.Debugf("frame %d: evaluating %d candidate triples",
		l.frames, len(cands.A1)*len(cands.A8)*len(cands.H1))

	sol, err := Search(ic, cands, l.board)
	if err != nil {
		return nil, err
	}
	l.logger.Debugf("frame %d: final score %f", l.frames, sol.Score)

	camToBoard, err := sol.Pose()
	if err != nil {
		return nil, errors.Wrap(err, "winning fit produced an invalid rotation")
	}
	// the search solves camera to board; downstream wants board to camera
	pose := spatialmath.PoseInverse(camToBoard)

	if l.broadcaster != nil {
		if err := l.broadcaster.SendTransform(ctx, frameID, l.cfg.TargetFrame, pose, stamp); err != nil {
			return nil, errors.Wrap(err, "broadcasting board transform")
		}
		l.logger.Infof("published %d", l.frames)
	}

	return &Result{
		Pose:       pose,
		Score:      sol.Score,
		Cloud:      ic,
		Candidates: cands,
		Frame:      l.frames,
	}, nil
}

// TransformedCloud applies a pose to every intersection point and returns the
// result as a point cloud, for debug export alongside the published pose.
func TransformedCloud(ic *IntersectionCloud, pose spatialmath.Pose) (pointcloud.PointCloud, error) {
	out := pointcloud.New()
	for _, p := range ic.Points {
		moved := spatialmath.Compose(pose, spatialmath.NewPoseFromPoint(p)).Point()
		if err := out.Set(moved, pointcloud.NewBasicData()); err != nil {
			return nil, err
		}
	}
	return out, nil
}
