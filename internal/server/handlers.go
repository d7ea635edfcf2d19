package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/traffic-signal-mcp/internal/imaging"
	"github.com/ironsheep/traffic-signal-mcp/internal/signal"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "signal_detect", "frame_load").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the frame from cache
//  4. Runs the requested pipeline stage
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "frame_load":
		return s.handleFrameLoad(args)

	// Full pipeline
	case "signal_detect":
		return s.handleSignalDetect(args)

	// Individual stages
	case "signal_detect_circles":
		return s.handleSignalDetectCircles(args)
	case "signal_color_ratios":
		return s.handleSignalColorRatios(args)
	case "signal_sample_color":
		return s.handleSignalSampleColor(args)
	case "signal_crop_roi":
		return s.handleSignalCropROI(args)
	case "signal_edge_detect":
		return s.handleSignalEdgeDetect(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// errNonPositiveRadius is returned by tools that build a region from a radius.
var errNonPositiveRadius = errors.New("radius must be positive")

// boolOr returns *b, or def when the argument was omitted.
func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// === Frame Information Handlers ===

type frameLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFrameLoad(args json.RawMessage) (interface{}, error) {
	var a frameLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadFrameInfo(s.cache, a.Path)
}

// === Pipeline Handlers ===

type signalDetectArgs struct {
	Path     string `json:"path"`
	Annotate bool   `json:"annotate"`
}

// signalDetectResult is the signal_detect payload.
type signalDetectResult struct {
	State     signal.State       `json:"state"`
	Labels    []string           `json:"labels,omitempty"`
	Ambiguous bool               `json:"ambiguous"`
	Candidate *signal.Candidate  `json:"candidate,omitempty"`
	ROI       *signal.Region     `json:"roi,omitempty"`
	Ratios    signal.ColorRatios `json:"ratios"`
	Detected  int                `json:"detected"`
	Rejected  int                `json:"rejected"`
	Summary   string             `json:"summary"`

	AnnotatedBase64 string `json:"annotated_base64,omitempty"`
	MimeType        string `json:"mime_type,omitempty"`
}

func (s *Server) handleSignalDetect(args json.RawMessage) (interface{}, error) {
	var a signalDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.pipeline.Process(img)
	if err != nil {
		return nil, err
	}

	out := &signalDetectResult{
		State:     res.State,
		Labels:    res.State.Labels(),
		Ambiguous: res.State.Ambiguous(),
		Candidate: res.Candidate,
		Ratios:    res.Ratios,
		Detected:  res.Detected,
		Rejected:  res.Rejected,
		Summary:   res.Describe(),
	}
	if res.Candidate != nil {
		roi := signal.RegionOf(res.ROI)
		out.ROI = &roi
	}

	if a.Annotate {
		encoded, err := imaging.EncodePNGBase64(res.Annotate())
		if err != nil {
			return nil, fmt.Errorf("failed to encode annotated frame: %w", err)
		}
		out.AnnotatedBase64 = encoded
		out.MimeType = "image/png"
	}
	return out, nil
}

type signalDetectCirclesArgs struct {
	Path string `json:"path"`
}

// circleInfo is one raw circle with its post-filter verdict.
type circleInfo struct {
	signal.Candidate
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

type signalDetectCirclesResult struct {
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	SignalBandRows int          `json:"signal_band_rows"`
	Circles        []circleInfo `json:"circles"`
	Count          int          `json:"count"`
	AcceptedCount  int          `json:"accepted_count"`
}

func (s *Server) handleSignalDetectCircles(args json.RawMessage) (interface{}, error) {
	var a signalDetectCirclesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	gray := signal.ToGrayscale(signal.Smooth(img))
	rows := gray.Bounds().Dy()

	raw, err := s.pipeline.Locator().Detect(gray)
	if err != nil {
		return nil, err
	}

	out := &signalDetectCirclesResult{
		Width:          gray.Bounds().Dx(),
		Height:         rows,
		SignalBandRows: rows / 3,
		Circles:        make([]circleInfo, 0, len(raw)),
		Count:          len(raw),
	}
	for _, c := range raw {
		reason := signal.RejectReason(c, rows)
		if reason == "" {
			out.AcceptedCount++
		}
		out.Circles = append(out.Circles, circleInfo{Candidate: c, Accepted: reason == "", Reason: reason})
	}
	return out, nil
}

type signalColorRatiosArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Radius int    `json:"radius"`
	Blur   *bool  `json:"blur"`
}

type signalColorRatiosResult struct {
	ROI     signal.Region      `json:"roi"`
	Ratios  signal.ColorRatios `json:"ratios"`
	State   signal.State       `json:"state"`
	Labels  []string           `json:"labels,omitempty"`
	Blurred bool               `json:"blurred"`
}

func (s *Server) handleSignalColorRatios(args json.RawMessage) (interface{}, error) {
	var a signalColorRatiosArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius <= 0 {
		return nil, errNonPositiveRadius
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	blurred := boolOr(a.Blur, true)
	var frame image.Image = img
	if blurred {
		frame = signal.Smooth(img)
	}

	roi := signal.RegionOfInterest(signal.Candidate{Center: image.Pt(a.X, a.Y), Radius: a.Radius}, frame.Bounds())
	if roi.Empty() {
		return nil, fmt.Errorf("region around (%d,%d) r=%d lies outside the frame", a.X, a.Y, a.Radius)
	}

	ratios := signal.Classify(frame, roi)
	state := signal.Resolve(ratios)
	return &signalColorRatiosResult{
		ROI:     signal.RegionOf(roi),
		Ratios:  ratios,
		State:   state,
		Labels:  state.Labels(),
		Blurred: blurred,
	}, nil
}

type signalSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Blur *bool  `json:"blur"`
}

type signalSampleColorResult struct {
	*imaging.ColorResult
	Bands   []string `json:"bands"`
	Blurred bool     `json:"blurred"`
}

func (s *Server) handleSignalSampleColor(args json.RawMessage) (interface{}, error) {
	var a signalSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	blurred := boolOr(a.Blur, true)
	var frame image.Image = img
	if blurred {
		frame = signal.Smooth(img)
	}

	c, err := imaging.SampleColor(frame, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return &signalSampleColorResult{
		ColorResult: c,
		Bands:       signal.Bands(c.HSV),
		Blurred:     blurred,
	}, nil
}

type signalCropROIArgs struct {
	Path   string  `json:"path"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius int     `json:"radius"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleSignalCropROI(args json.RawMessage) (interface{}, error) {
	var a signalCropROIArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius <= 0 {
		return nil, errNonPositiveRadius
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	roi := signal.RegionOfInterest(signal.Candidate{Center: image.Pt(a.X, a.Y), Radius: a.Radius}, img.Bounds())
	return imaging.CropROI(img, roi, a.Scale)
}

type signalEdgeDetectArgs struct {
	Path          string  `json:"path"`
	ThresholdLow  float64 `json:"threshold_low"`
	ThresholdHigh float64 `json:"threshold_high"`
}

func (s *Server) handleSignalEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a signalEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 100
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(signal.Smooth(img), a.ThresholdLow, a.ThresholdHigh)
}
