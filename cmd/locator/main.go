// Package main locates a checkerboard calibration target in one synchronized
// color image / depth map pair and prints the board pose in the camera frame.
// With -debug it also writes an annotated image and the board-frame
// intersection cloud as a PCD file.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/rimage"
	"go.viam.com/rdk/rimage/transform"
	"go.viam.com/rdk/spatialmath"
	goutils "go.viam.com/utils"
	"gocv.io/x/gocv"

	"github.com/viam-labs/chessboard-locator/boardpose"
	"github.com/viam-labs/chessboard-locator/linedetect"
)

var logger = logging.NewLogger("chessboard_locator")

func main() {
	if err := realMain(os.Args[1:]); err != nil {
		logger.Fatal(err)
	}
}

// logBroadcaster prints transforms instead of publishing them anywhere.
type logBroadcaster struct {
	logger logging.Logger
}

func (b *logBroadcaster) SendTransform(
	ctx context.Context, parent, child string, pose spatialmath.Pose, stamp time.Time,
) error {
	pt := pose.Point()
	b.logger.Infof("%s -> %s @ %s: translation (%.4f, %.4f, %.4f) orientation %v",
		parent, child, stamp.Format(time.RFC3339Nano), pt.X, pt.Y, pt.Z,
		pose.Orientation().OrientationVectorDegrees())
	return nil
}

func realMain(args []string) error {
	flags := flag.NewFlagSet("locator", flag.ExitOnError)
	colorFile := flags.String("color", "", "color image of the board")
	depthFile := flags.String("depth", "", "registered depth map (16-bit grayscale png, mm)")
	intrinsicsFile := flags.String("intrinsics", "", "pinhole camera intrinsics json")
	frameID := flags.String("frame", "camera", "camera frame id")
	squareSize := flags.Float64("square-size", boardpose.DefaultSquareSize, "board square side length in meters")
	debug := flags.Bool("debug", false, "write debug artifacts")
	outImage := flags.String("out-image", "annotated.png", "debug annotated image path")
	outCloud := flags.String("out-cloud", "board_points.pcd", "debug transformed cloud path")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *colorFile == "" || *depthFile == "" || *intrinsicsFile == "" {
		return errors.New("-color, -depth and -intrinsics are required")
	}

	ctx := context.Background()

	img, err := linedetect.ReadImage(*colorFile)
	if err != nil {
		return err
	}
	defer img.Close()

	intrinsics, err := transform.NewPinholeCameraIntrinsicsFromJSONFile(*intrinsicsFile)
	if err != nil {
		return errors.Wrap(err, "loading intrinsics")
	}
	dm, err := rimage.NewDepthMapFromFile(ctx, *depthFile)
	if err != nil {
		return errors.Wrap(err, "loading depth map")
	}
	// depth maps store millimeters; the locator works in meters
	accessor := boardpose.PointAccessorFunc(func(x, y int) r3.Vector {
		z := float64(dm.GetDepth(x, y)) / 1000.0
		px, py, pz := intrinsics.PixelToPoint(float64(x), float64(y), z)
		return r3.Vector{X: px, Y: py, Z: pz}
	})

	detector, err := linedetect.NewDetector(nil, logger)
	if err != nil {
		return err
	}
	segments, err := detector.Detect(img)
	if err != nil {
		return err
	}

	cfg := boardpose.DefaultConfig()
	cfg.Width = img.Cols()
	cfg.Height = img.Rows()
	cfg.SquareSize = *squareSize
	locator, err := boardpose.NewLocator(cfg, &logBroadcaster{logger}, logger)
	if err != nil {
		return err
	}

	res, err := locator.Process(ctx, segments, accessor, *frameID, time.Now())
	if err != nil {
		return err
	}
	logger.Infof("board located with fit score %g from %d intersections", res.Score, res.Cloud.Size())

	if *debug {
		if err := writeDebugArtifacts(img, segments, res, *outImage, *outCloud); err != nil {
			return err
		}
	}
	return nil
}

func writeDebugArtifacts(
	img gocv.Mat, segments []boardpose.Segment, res *boardpose.Result, outImage, outCloud string,
) error {
	annotated := img.Clone()
	defer annotated.Close()
	horizontal, vertical := boardpose.ClassifySegments(segments)
	linedetect.Annotate(&annotated, horizontal, vertical, res.Cloud.Pixels)
	if !gocv.IMWrite(outImage, annotated) {
		return errors.Errorf("writing %q", outImage)
	}

	// export the intersection cloud mapped into the board frame
	moved, err := boardpose.TransformedCloud(res.Cloud, spatialmath.PoseInverse(res.Pose))
	if err != nil {
		return err
	}
	f, err := os.Create(outCloud)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	return pointcloud.ToPCD(moved, f, pointcloud.PCDAscii)
}
