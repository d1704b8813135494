package client

// ProjectOrder overlays an in-flight drag onto a confirmed ordering: the
// dragged id is removed from wherever it sits and inserted at the hovered
// index. The input slice is not modified; the projection is presentation
// state only and is discarded when the drag ends or is cancelled.
func ProjectOrder(ordered []string, draggedID string, hoverIndex int) []string {
	projected := make([]string, 0, len(ordered)+1)
	for _, id := range ordered {
		if id != draggedID {
			projected = append(projected, id)
		}
	}

	if hoverIndex < 0 {
		hoverIndex = 0
	}
	if hoverIndex > len(projected) {
		hoverIndex = len(projected)
	}

	projected = append(projected, "")
	copy(projected[hoverIndex+1:], projected[hoverIndex:])
	projected[hoverIndex] = draggedID
	return projected
}
