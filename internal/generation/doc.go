// Package generation defines the boundary between the application core and
// the external media providers. It abstracts the details of the image, speech,
// and sentence provider APIs (Zhipu CogView, ElevenLabs, Gemini), allowing the
// asset pipeline to produce vocabulary media without coupling to specific
// external services.
package generation
