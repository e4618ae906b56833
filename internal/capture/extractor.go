package capture

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vidmark/vidmark/internal/stego"
)

// DefaultFrameRate is assumed when the container does not report a usable
// rate; frame indices then map to timestamps at this fixed rate.
const DefaultFrameRate = 30.0

// VideoSource rasterizes frames of a local video file to raw RGBA via
// ffmpeg, playing the role of the browser's frame capture for offline
// verification. It implements playback.FrameSource.
type VideoSource struct {
	ffmpegPath  string
	ffprobePath string
	videoPath   string
	width       int
	height      int
	frameRate   float64
}

// OpenVideo probes the first video stream's geometry and frame rate.
func OpenVideo(videoPath string) (*VideoSource, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video file not accessible: %w", err)
	}

	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	cmd := exec.Command(ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-of", "csv=p=0",
		videoPath)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", videoPath, err)
	}

	width, height, frameRate, err := parseProbeOutput(stdout.String())
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", videoPath, err)
	}

	log.Printf("[CAPTURE] %s: %dx%d @ %.2f fps", videoPath, width, height, frameRate)

	return &VideoSource{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		videoPath:   videoPath,
		width:       width,
		height:      height,
		frameRate:   frameRate,
	}, nil
}

// CaptureFrame decodes the frame at index (index/fps seconds into the
// stream) to a raw RGBA buffer.
func (vs *VideoSource) CaptureFrame(ctx context.Context, index int) (*stego.Frame, error) {
	timestamp := float64(index) / vs.frameRate

	args := []string{
		"-ss", fmt.Sprintf("%.4f", timestamp),
		"-i", vs.videoPath,
		"-vframes", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, vs.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame decode at %.4fs: %w (%s)",
			timestamp, err, strings.TrimSpace(stderr.String()))
	}

	want := vs.width * vs.height * 4
	if stdout.Len() != want {
		return nil, fmt.Errorf("unexpected frame size at %.4fs: got %d bytes, want %d",
			timestamp, stdout.Len(), want)
	}

	return &stego.Frame{Width: vs.width, Height: vs.height, Pix: stdout.Bytes()}, nil
}

// FrameRate returns the probed (or assumed) frame rate.
func (vs *VideoSource) FrameRate() float64 {
	return vs.frameRate
}

// Dimensions returns the stream's pixel geometry.
func (vs *VideoSource) Dimensions() (width, height int) {
	return vs.width, vs.height
}

// parseProbeOutput parses a "width,height,r_frame_rate" csv line as emitted
// by ffprobe.
func parseProbeOutput(out string) (width, height int, frameRate float64, err error) {
	line := strings.TrimSpace(out)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return 0, 0, 0, fmt.Errorf("unexpected ffprobe output: %q", out)
	}

	width, err = strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid width %q: %w", fields[0], err)
	}
	height, err = strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid height %q: %w", fields[1], err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, 0, fmt.Errorf("invalid stream geometry %dx%d", width, height)
	}

	frameRate = DefaultFrameRate
	if len(fields) >= 3 {
		if rate, ok := parseFrameRate(fields[2]); ok {
			frameRate = rate
		}
	}
	return width, height, frameRate, nil
}

// parseFrameRate parses ffprobe rationals like "30000/1001" or "25/1".
// Unusable values ("0/0" for still images, garbage) report ok=false so the
// caller falls back to DefaultFrameRate.
func parseFrameRate(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")

	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}

	rate := num
	if len(parts) == 2 {
		denom, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		rate = num / denom
	} else if len(parts) > 2 {
		return 0, false
	}

	if rate <= 0 {
		return 0, false
	}
	return rate, true
}
