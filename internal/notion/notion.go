package notion

// NotionClient is the API surface the exporter depends on. The adapter
// bridges it to the real client, tests swap in mocks.
type NotionClient interface {
	Page() PageService
	Search() SearchService
	Block() BlockService
	Database() DatabaseService
	User() UserService
}
