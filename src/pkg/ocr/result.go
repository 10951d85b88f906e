package ocr

/*
Result is the durable output of a recognition run: the aggregated (and
possibly spell-corrected) text plus the pixel dimensions of the image that
was actually submitted to the engine. The dimensions are always those of the
conditioned image, never of the original input, so callers can map any
downstream coordinates onto the buffer the engine saw.
*/
type Result struct {
	FullText             string `json:"full_text"`
	ProcessedImageWidth  int    `json:"processed_image_width"`
	ProcessedImageHeight int    `json:"processed_image_height"`
	// SpellcheckApplied reports whether the correction pass changed the text.
	SpellcheckApplied bool `json:"spellcheck_applied"`
}
