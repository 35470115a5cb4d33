package board

// BlockSize is how many page numbers the pagination control shows at once.
const BlockSize = 10

// Block is a window of page numbers [Start, End]. Empty when End < Start.
type Block struct {
	Start int
	End   int
}

// PageBlock returns the block containing current:
// start = floor((current-1)/size)*size + 1, end = min(start+size-1, totalPages).
func PageBlock(current, totalPages, size int) Block {
	if size <= 0 {
		size = BlockSize
	}
	if current < 1 {
		current = 1
	}
	start := (current-1)/size*size + 1
	end := start + size - 1
	if end > totalPages {
		end = totalPages
	}
	return Block{Start: start, End: end}
}

// Pages lists the page numbers of the block.
func (b Block) Pages() []int {
	if b.End < b.Start {
		return []int{}
	}
	pages := make([]int, 0, b.End-b.Start+1)
	for p := b.Start; p <= b.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// PrevBlockPage is the last page of the previous block, 0 if none.
func (b Block) PrevBlockPage() int {
	if b.Start <= 1 {
		return 0
	}
	return b.Start - 1
}

// NextBlockPage is the first page of the next block, 0 if none.
func (b Block) NextBlockPage(totalPages int) int {
	if b.End >= totalPages || b.End < b.Start {
		return 0
	}
	return b.End + 1
}
