// Package signal classifies the state of a traffic signal from a single frame.
//
// A Pipeline runs one frame at a time through four stages:
//
//  1. Smooth: 9×9 Gaussian blur (sigma 2.0) on a private copy of the frame
//  2. Locate: circle detection on the grayscale copy, filtered by radius and
//     by position (signal lamps sit in the upper third of the frame)
//  3. Classify: HSV band coverage inside the first accepted candidate's
//     region of interest
//  4. Resolve: ratios above 0.4 become labels in the fixed order STOP, GO, WAIT
//
// The outcome is always one of NO SIGNAL, UNKNOWN, a single label, or labels
// joined with " & ". Only an unusable frame is an error (ErrInvalidFrame).
//
// The pipeline commits to the first accepted candidate and never compares it
// with later ones. A spurious circle found before the real lamp therefore
// hides the lamp for that frame.
//
// Nothing is remembered between calls, and a Pipeline may be shared by
// goroutines processing different frames.
package signal
