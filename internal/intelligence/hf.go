package intelligence

import "context"

// HuggingFaceProvider reserves the "hf" id for the serverless inference API.
type HuggingFaceProvider struct{}

func (HuggingFaceProvider) ID() string          { return "hf" }
func (HuggingFaceProvider) Name() string        { return "HuggingFace (Inference API)" }
func (HuggingFaceProvider) Description() string { return "Serverless inference for open models" }
func (HuggingFaceProvider) IsConfigured() bool  { return false }

func (HuggingFaceProvider) Generate(context.Context, Prompt) (*Generation, error) {
	return nil, ErrNotImplemented
}
